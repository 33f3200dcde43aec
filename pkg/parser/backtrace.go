package parser

import (
	"slices"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// Backtrace records the furthest position at which any parse alternative
// failed, with the set of labels expected there and the text found.
//
// Every parse function of one Parser shares the same *Backtrace, so failures
// inside alternatives that are later abandoned still contribute. A Backtrace
// belongs to exactly one top-level parse and is not safe for concurrent use.
type Backtrace struct {
	tracked  bool
	furthest int
	expected []string
	found    string
}

// NewBacktrace returns an empty tracker.
func NewBacktrace() *Backtrace {
	return &Backtrace{}
}

// Track records that expected was wanted at byte offset pos, where found
// was present. An empty found means the input ended at pos.
//
// A position beyond the furthest so far replaces the expected set, an equal
// position extends it, and a nearer position is ignored.
func (b *Backtrace) Track(pos int, expected, found string) {
	switch {
	case !b.tracked || pos > b.furthest:
		b.tracked = true
		b.furthest = pos
		b.expected = append(b.expected[:0], expected)
		b.found = found
	case pos == b.furthest:
		if !slices.Contains(b.expected, expected) {
			b.expected = append(b.expected, expected)
		}
	}
}

// Furthest returns the furthest failure offset, or false if nothing has
// been tracked.
func (b *Backtrace) Furthest() (int, bool) {
	return b.furthest, b.tracked
}

// Expected returns the sorted labels expected at the furthest position.
func (b *Backtrace) Expected() []string {
	out := slices.Clone(b.expected)
	slices.Sort(out)
	return out
}

// Found returns the text found at the furthest position; empty at end of input.
func (b *Backtrace) Found() string {
	return b.found
}

// Reset clears the tracker for reuse by a new top-level parse.
func (b *Backtrace) Reset() {
	b.tracked = false
	b.furthest = 0
	b.expected = b.expected[:0]
	b.found = ""
}

// Diagnostic converts the tracked state into a SyntaxError for input.
func (b *Backtrace) Diagnostic(input string) *SyntaxError {
	pos := 0
	if b.tracked {
		pos = b.furthest
	}
	e := &SyntaxError{
		Pos:      token.PositionAt(input, pos),
		Expected: b.Expected(),
		Found:    b.found,
		AtEOF:    b.found == "",
	}
	if !e.AtEOF {
		e.Suggestion, _ = Suggest(b.found, e.Expected)
	}
	return e
}
