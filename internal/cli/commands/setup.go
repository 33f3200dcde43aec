package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapparse/internal/cli/config"
	"github.com/leapstack-labs/leapparse/internal/cli/output"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/spf13/cobra"
)

// CommandContext holds the dependencies shared by all commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the config and logger
// stored in the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
	if cfg.NoColor {
		r.DisableColor()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// ParserOptions returns the parser options selected by configuration.
func (c *CommandContext) ParserOptions() []parser.Option {
	return []parser.Option{parser.WithMaxDepth(c.Cfg.Parser.MaxDepth)}
}

// source is SQL text and the name it was read from.
type source struct {
	Name string
	Text string
}

// readSource reads the file named by args[0], or stdin when args is empty
// or "-".
func readSource(cmd *cobra.Command, args []string) (source, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return source{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return source{Name: "<stdin>", Text: string(data)}, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return source{}, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return source{Name: args[0], Text: string(data)}, nil
}
