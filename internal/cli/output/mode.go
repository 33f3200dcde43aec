// Package output renders CLI results for terminals, pipes, and machines.
//
// Output adapts to environment: styled text on a terminal, markdown when
// piped, and JSON or YAML when requested explicitly.
package output

import "strings"

// OutputMode selects how results are rendered.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Mode converts a config or flag value to an OutputMode.
// Empty and unknown values select ModeAuto.
func Mode(s string) OutputMode {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeText, ModeMarkdown, ModeJSON, ModeYAML:
		return m
	case "md":
		return ModeMarkdown
	case "yml":
		return ModeYAML
	default:
		return ModeAuto
	}
}

// IsStructured reports whether m is a machine-readable mode.
func (m OutputMode) IsStructured() bool {
	return m == ModeJSON || m == ModeYAML
}
