package grammar

import (
	"fmt"
	"strings"
)

// Span is a region of the input matched by a named rule.
// Offsets are byte offsets and End is exclusive.
type Span struct {
	Rule     string  `json:"rule"`
	Start    int     `json:"start"`
	End      int     `json:"end"`
	Children []*Span `json:"children,omitempty"`
}

// Len returns the number of bytes covered by the span.
func (s *Span) Len() int {
	return s.End - s.Start
}

// Text returns input[Start:End], or an empty string when the span does
// not fit the given input.
func (s *Span) Text(input string) string {
	if s == nil || s.Start < 0 || s.Start > s.End || s.End > len(input) {
		return ""
	}
	return input[s.Start:s.End]
}

// Find returns every span named rule in pre-order, s included.
func (s *Span) Find(rule string) []*Span {
	var found []*Span
	s.walk(func(sp *Span) {
		if sp.Rule == rule {
			found = append(found, sp)
		}
	})
	return found
}

func (s *Span) walk(visit func(*Span)) {
	if s == nil {
		return
	}
	visit(s)
	for _, child := range s.Children {
		child.walk(visit)
	}
}

func (s *Span) String() string {
	if s == nil {
		return "<nil>"
	}
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Span) write(b *strings.Builder) {
	fmt.Fprintf(b, "%s(%d..%d", s.Rule, s.Start, s.End)
	for _, child := range s.Children {
		b.WriteString(", ")
		child.write(b)
	}
	b.WriteByte(')')
}
