package types

import "github.com/theronib/sql-parser/grammar"

// LineResult is the outcome of dispatching one non-empty line of a source.
type LineResult struct {
	Filename string `json:"filename,omitempty"`
	// Line is 1-based. Column is the 1-based column where the trimmed
	// text starts in the original line.
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Text   string `json:"text"`

	// Rule and Span are set when the line parsed.
	Rule string        `json:"rule,omitempty"`
	Span *grammar.Span `json:"span,omitempty"`

	// Error is set when it did not. Reason names the rule that got
	// furthest, and Offset is how far into Text it got.
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Parsed reports whether some rule matched the line.
func (r LineResult) Parsed() bool {
	return r.Span != nil
}
