package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapparse/internal/cli/output"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrCheckFailed is returned when at least one checked file does not parse.
var ErrCheckFailed = errors.New("one or more files failed to parse")

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool // Re-check files when they change
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "Check that SQL files parse",
		Long: `Parse every given file concurrently and report one result per file.

Directories are searched recursively for *.sql files. Each file is parsed
independently with its own error tracker, so results do not depend on the
order files finish in.

Exits non-zero when any file fails to parse.`,
		Example: `  # Check a directory of queries
  leapparse check ./queries

  # Re-check on every save
  leapparse check ./queries --watch

  # Machine-readable results
  leapparse check a.sql b.sql -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check files when they change")
	cmd.Flags().Int("concurrency", 0, "Number of files parsed at once (default from config)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cc := NewCommandContext(cmd)

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .sql files found in %s", strings.Join(args, ", "))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := checkFiles(ctx, cc, paths)
	if err != nil {
		return err
	}
	failed, err := renderCheckResults(cc.Renderer, results)
	if err != nil {
		return err
	}

	if !opts.Watch {
		if failed {
			return ErrCheckFailed
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newFileWatcher(paths, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	cc.Renderer.Muted(fmt.Sprintf("Watching %d files, press Ctrl+C to stop", len(paths)))
	return w.Run(ctx, func(changed []string) {
		results, err := checkFiles(ctx, cc, changed)
		if err != nil {
			cc.Logger.Warn("re-check failed", "error", err)
			return
		}
		cc.Renderer.Println("")
		if _, err := renderCheckResults(cc.Renderer, results); err != nil {
			cc.Logger.Warn("render failed", "error", err)
		}
	})
}

// expandPaths replaces directories with the .sql files beneath them.
// Explicit file arguments are kept whatever their extension.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".sql") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
		slices.Sort(found)
		for _, p := range found {
			add(p)
		}
	}
	return paths, nil
}

// checkFiles parses paths concurrently. Results keep the order of paths.
func checkFiles(ctx context.Context, cc *CommandContext, paths []string) ([]output.CheckFileResult, error) {
	results := make([]output.CheckFileResult, len(paths))
	opts := cc.ParserOptions()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cc.Cfg.Check.Concurrency))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(cc, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkFile(cc *CommandContext, path string, opts []parser.Option) output.CheckFileResult {
	res := output.CheckFileResult{Path: path}
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		res.Error = &output.Diagnostic{Message: err.Error()}
		return res
	}

	_, err = parser.Parse(string(data), opts...)
	elapsed := time.Since(start)
	res.Duration = elapsed.Round(time.Microsecond).String()
	if err != nil {
		cc.Logger.Warn("parse failed", "file", path, "error", err)
		res.Error = newDiagnostic(string(data), err)
		return res
	}

	cc.Logger.Debug("parsed file", "file", path, "bytes", len(data), "duration", elapsed)
	res.OK = true
	return res
}

// renderCheckResults writes results and reports whether any failed.
func renderCheckResults(r *output.Renderer, results []output.CheckFileResult) (bool, error) {
	summary := output.CheckSummary{Total: len(results)}
	for _, res := range results {
		if res.OK {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	failed := summary.Failed > 0

	if ok, err := r.Structured(output.CheckOutput{Files: results, Summary: summary}); ok {
		return failed, err
	}

	styles := r.Styles()
	text := r.EffectiveMode() == output.ModeText
	rows := make([]table.Row, len(results))
	for i, res := range results {
		status, position, message := "ok", "", ""
		if !res.OK {
			status = "FAIL"
			message = res.Error.Message
			if res.Error.Suggestion != "" {
				message += " (did you mean " + res.Error.Suggestion + "?)"
			}
			if res.Error.Line > 0 {
				position = fmt.Sprintf("%d:%d", res.Error.Line, res.Error.Column)
			}
		}
		if text {
			if res.OK {
				status = styles.StatusSuccess.Render(status)
			} else {
				status = styles.StatusFailed.Render(status)
			}
		}
		rows[i] = table.Row{status, res.Path, position, message}
	}
	r.Table(table.Row{"Status", "File", "Position", "Message"}, rows)

	line := fmt.Sprintf("%d files checked, %d passed, %d failed", summary.Total, summary.Passed, summary.Failed)
	if failed {
		r.Warning(line)
	} else {
		r.Success(line)
	}
	return failed, nil
}
