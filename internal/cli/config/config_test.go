package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leapparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, DefaultMaxDepth, cfg.Parser.MaxDepth)
	assert.Equal(t, DefaultConcurrency, cfg.Check.Concurrency)
	assert.Equal(t, DefaultPrompt, cfg.REPL.Prompt)
	assert.NotEmpty(t, cfg.REPL.HistoryFile)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `output: json
verbose: true
parser:
  max_depth: 64
check:
  concurrency: 2
repl:
  prompt: "sql> "
  history_file: /tmp/hist
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 64, cfg.Parser.MaxDepth)
	assert.Equal(t, 2, cfg.Check.Concurrency)
	assert.Equal(t, "sql> ", cfg.REPL.Prompt)
	assert.Equal(t, "/tmp/hist", cfg.REPL.HistoryFile)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	path := writeConfig(t, `parser:
  max_depth: 64
`)
	t.Setenv("LEAPPARSE_PARSER_MAX_DEPTH", "128")
	t.Setenv("LEAPPARSE_OUTPUT", "yaml")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 128, cfg.Parser.MaxDepth, "env var should override config file")
	assert.Equal(t, "yaml", cfg.OutputFormat)
}

// TestLoadConfig_FlagPrecedence tests that explicitly set flags win.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	path := writeConfig(t, `check:
  concurrency: 2
`)
	t.Setenv("LEAPPARSE_CHECK_CONCURRENCY", "3")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("concurrency", 0, "workers")
	flags.Bool("no-color", false, "disable color")
	require.NoError(t, flags.Set("concurrency", "8"))
	require.NoError(t, flags.Set("no-color", "true"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Check.Concurrency, "flag value should override config file and env var")
	assert.True(t, cfg.NoColor)
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	t.Setenv("LEAPPARSE_CHECK_CONCURRENCY", "3")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("concurrency", 1, "workers")

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Check.Concurrency, "env var should be used when flag is not set")
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, "output: xml\n")

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "markdown", mutate: func(c *Config) { c.OutputFormat = "markdown" }},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "html" }, errSubstr: "invalid output format"},
		{name: "zero depth", mutate: func(c *Config) { c.Parser.MaxDepth = 0 }, errSubstr: "parser.max_depth"},
		{name: "negative concurrency", mutate: func(c *Config) { c.Check.Concurrency = -1 }, errSubstr: "check.concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "output", envKey("LEAPPARSE_OUTPUT"))
	assert.Equal(t, "no_color", envKey("LEAPPARSE_NO_COLOR"))
	assert.Equal(t, "parser.max_depth", envKey("LEAPPARSE_PARSER_MAX_DEPTH"))
	assert.Equal(t, "repl.history_file", envKey("LEAPPARSE_REPL_HISTORY_FILE"))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.NotNil(t, GetLogger(ctx), "missing logger should fall back to a discard logger")
	assert.Equal(t, Default(), GetConfig(ctx))

	logger := slog.New(slog.DiscardHandler)
	cfg := &Config{OutputFormat: "json"}
	ctx = WithConfig(WithLogger(ctx, logger), cfg)

	assert.Same(t, logger, GetLogger(ctx))
	assert.Same(t, cfg, GetConfig(ctx))
	assert.Same(t, logger, ctx.Value(LoggerKey()))
}
