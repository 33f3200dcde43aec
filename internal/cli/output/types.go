package output

// Diagnostic is the structured form of a lex or parse failure.
type Diagnostic struct {
	Message    string   `json:"message"`
	Line       int      `json:"line,omitempty"`
	Column     int      `json:"column,omitempty"`
	Offset     int      `json:"offset"`
	Expected   []string `json:"expected,omitempty"`
	Found      string   `json:"found,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Snippet    string   `json:"snippet,omitempty"`
}

// ParseOutput is the structured result of the parse command.
type ParseOutput struct {
	Source    string      `json:"source"`
	OK        bool        `json:"ok"`
	Formatted string      `json:"formatted,omitempty"`
	Tables    []string    `json:"tables,omitempty"`
	CTEs      []string    `json:"ctes,omitempty"`
	AST       any         `json:"ast,omitempty"`
	Error     *Diagnostic `json:"error,omitempty"`
}

// TokenInfo is one row of the tokens command.
type TokenInfo struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// TokensOutput is the structured result of the tokens command.
type TokensOutput struct {
	Source string      `json:"source"`
	Tokens []TokenInfo `json:"tokens"`
	Error  *Diagnostic `json:"error,omitempty"`
}

// CheckFileResult is the outcome of checking one file.
type CheckFileResult struct {
	Path     string      `json:"path"`
	OK       bool        `json:"ok"`
	Duration string      `json:"duration"`
	Error    *Diagnostic `json:"error,omitempty"`
}

// CheckSummary totals a check run.
type CheckSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// CheckOutput is the structured result of the check command.
type CheckOutput struct {
	Files   []CheckFileResult `json:"files"`
	Summary CheckSummary      `json:"summary"`
}
