package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		name       string
		found      string
		candidates []string
		want       string
	}{
		{"transposed select", "SELCT", []string{"INSERT", "SELECT", "UPDATE"}, "SELECT"},
		{"lowercase input", "selct", []string{"SELECT", "WITH"}, "SELECT"},
		{"swapped letters", "FORM", []string{"','", "FROM", "UNION", "WHERE"}, "FROM"},
		{"where typo", "WHEER", []string{"UNION", "WHERE", "end of input"}, "WHERE"},
		{"nothing close", "banana", []string{"FROM", "WHERE"}, ""},
		{"labels are not keywords", "identifer", []string{"identifier"}, ""},
		{"exact match is not a suggestion", "INSERT", []string{"INSERT", "SELECT"}, ""},
		{"empty", "", []string{"SELECT"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.found, tt.candidates)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != "", ok)
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("SELECT", "SELECT"), 1e-9)
	assert.Greater(t, Similarity("SELCT", "SELECT"), SuggestionThreshold)
	assert.Less(t, Similarity("SELCT", "UPDATE"), SuggestionThreshold)
	assert.Greater(t, Similarity("SELCT", "SELECT"), Similarity("SELCT", "DELETE"))
}

func TestLooksLikeKeyword(t *testing.T) {
	for _, ident := range []string{"FORM", "frm", "WHEER", "wehre", "UNOIN"} {
		assert.True(t, looksLikeKeyword(ident, afterSelectItem), ident)
	}
	for _, ident := range []string{"u", "users", "w", "f", "total", "alias", "fromage"} {
		assert.False(t, looksLikeKeyword(ident, afterSelectItem), ident)
	}
	// FROM cannot follow a table reference.
	assert.False(t, looksLikeKeyword("frame", afterTableRef))
	assert.True(t, looksLikeKeyword("WHEER", afterTableRef))
}
