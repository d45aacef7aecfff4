package grammar

// state is the bookkeeping of one Match call. It is never shared between
// calls, so a Grammar can be used from several goroutines at once.
type state struct {
	grammar *Grammar
	input   string

	// furthest is the highest position a terminal failed at.
	furthest int
	atEOF    bool

	// lookahead is non-zero while evaluating inside Not; failures there
	// are expected and do not move furthest.
	lookahead int
}

func newState(g *Grammar, input string) *state {
	return &state{grammar: g, input: input}
}

func (s *state) rest(pos int) string {
	return s.input[pos:]
}

func (s *state) fail(pos int) {
	if s.lookahead > 0 {
		return
	}
	switch {
	case pos > s.furthest:
		s.furthest = pos
		s.atEOF = pos >= len(s.input)
	case pos == s.furthest && pos >= len(s.input):
		s.atEOF = true
	}
}

func (s *state) err(rule string) *MatchError {
	kind := NoMatch
	if s.atEOF {
		kind = UnexpectedEOF
	}
	return &MatchError{Rule: rule, Offset: s.furthest, Kind: kind}
}
