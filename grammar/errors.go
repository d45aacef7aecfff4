package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch is matched by every *MatchError.
	ErrNoMatch = errors.New("no rule matched")

	ErrUnknownRule   = errors.New("unknown rule")
	ErrDuplicateRule = errors.New("duplicate rule")
	ErrUndefinedRule = errors.New("reference to undefined rule")
)

// FailureKind tells why a match failed.
type FailureKind int

const (
	// NoMatch means the rule did not match the text at Offset.
	NoMatch FailureKind = iota
	// UnexpectedEOF means the input ended before a mandatory part could match.
	UnexpectedEOF
)

func (k FailureKind) String() string {
	switch k {
	case NoMatch:
		return "no match"
	case UnexpectedEOF:
		return "unexpected end of input"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// MatchError is returned by Grammar.Match when the rule does not match.
// Offset is the furthest position any terminal was tried at.
type MatchError struct {
	Rule   string
	Offset int
	Kind   FailureKind
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d", e.Rule, e.Kind, e.Offset)
}

func (e *MatchError) Is(target error) bool {
	return target == ErrNoMatch
}
