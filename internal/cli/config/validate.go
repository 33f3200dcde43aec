package config

import (
	"fmt"
	"slices"
)

// OutputModes lists the accepted values of the output setting.
var OutputModes = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputModes, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %v)", c.OutputFormat, OutputModes)
	}
	if c.Parser.MaxDepth <= 0 {
		return fmt.Errorf("parser.max_depth must be positive, got %d", c.Parser.MaxDepth)
	}
	if c.Check.Concurrency <= 0 {
		return fmt.Errorf("check.concurrency must be positive, got %d", c.Check.Concurrency)
	}
	return nil
}
