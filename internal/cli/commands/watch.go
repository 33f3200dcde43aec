package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the bursts of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

// fileWatcher reports changes to a fixed set of files.
// It watches their parent directories so files replaced by rename
// keep being tracked.
type fileWatcher struct {
	w       *fsnotify.Watcher
	tracked map[string]string // absolute path -> path as given
	logger  *slog.Logger
}

func newFileWatcher(paths []string, logger *slog.Logger) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &fileWatcher{w: w, tracked: make(map[string]string, len(paths)), logger: logger}
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		fw.tracked[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return fw, nil
}

// Run calls onChange with the changed paths, sorted, after each quiet
// period. It returns when ctx is done.
func (fw *fileWatcher) Run(ctx context.Context, onChange func(paths []string)) error {
	pending := map[string]bool{}
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			p, ok := fw.tracked[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			fw.logger.Debug("file changed", "file", p, "op", ev.Op.String())
			pending[p] = true
			timer.Reset(watchDebounce)

		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warn("watch error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			onChange(changed)
		}
	}
}

// Close stops watching.
func (fw *fileWatcher) Close() error {
	return fw.w.Close()
}
