// Package config provides configuration management for the leapparse CLI.
//
// Values are layered, lowest to highest precedence: built-in defaults,
// leapparse.yaml, LEAPPARSE_* environment variables, then command-line
// flags that were set explicitly.
package config

// Default values.
const (
	DefaultOutput      = "auto"
	DefaultMaxDepth    = 512
	DefaultConcurrency = 4
	DefaultPrompt      = "leapparse> "
	DefaultHistoryFile = ".leapparse_history"
	EnvPrefix          = "LEAPPARSE_"
)

// ParserConfig holds parser limits.
type ParserConfig struct {
	MaxDepth int `koanf:"max_depth"`
}

// CheckConfig holds settings for the check command.
type CheckConfig struct {
	Concurrency int `koanf:"concurrency"`
}

// REPLConfig holds settings for the interactive parser.
type REPLConfig struct {
	HistoryFile string `koanf:"history_file"`
	Prompt      string `koanf:"prompt"`
}

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string       `koanf:"output"`
	Verbose      bool         `koanf:"verbose"`
	NoColor      bool         `koanf:"no_color"`
	Parser       ParserConfig `koanf:"parser"`
	Check        CheckConfig  `koanf:"check"`
	REPL         REPLConfig   `koanf:"repl"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		Parser:       ParserConfig{MaxDepth: DefaultMaxDepth},
		Check:        CheckConfig{Concurrency: DefaultConcurrency},
		REPL:         REPLConfig{Prompt: DefaultPrompt},
	}
}
