package grammar

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule is a matching expression. Rules are immutable values built with the
// constructors in this file and combined into named rules by NewGrammar.
type Rule interface {
	// match tries the rule at pos. On success it returns the position after
	// the consumed text and the spans captured on the way. On failure the
	// returned position is pos.
	match(s *state, pos int) (int, []*Span, bool)
	String() string
}

var (
	_ Rule = literal{}
	_ Rule = (*regex)(nil)
	_ Rule = sequence{}
	_ Rule = choice{}
	_ Rule = opt{}
	_ Rule = zeroOrMore{}
	_ Rule = oneOrMore{}
	_ Rule = not{}
	_ Rule = ref{}
)

type literal struct {
	text string
}

// Literal matches text exactly. Matching is case-sensitive.
func Literal(text string) Rule {
	return literal{text: text}
}

func (r literal) match(s *state, pos int) (int, []*Span, bool) {
	if strings.HasPrefix(s.rest(pos), r.text) {
		return pos + len(r.text), nil, true
	}
	s.fail(pos)
	return pos, nil, false
}

func (r literal) String() string { return strconv.Quote(r.text) }

type regex struct {
	source string
	re     *regexp.Regexp
}

// Regex matches the regular expression expr at the cursor. The expression
// is anchored: a match that would start further into the input fails.
// It panics if expr does not compile.
func Regex(expr string) Rule {
	return &regex{
		source: expr,
		re:     regexp.MustCompile(`^(?:` + expr + `)`),
	}
}

func (r *regex) match(s *state, pos int) (int, []*Span, bool) {
	loc := r.re.FindStringIndex(s.rest(pos))
	if loc == nil {
		s.fail(pos)
		return pos, nil, false
	}
	return pos + loc[1], nil, true
}

func (r *regex) String() string { return "/" + r.source + "/" }

type sequence []Rule

// Sequence matches every rule in order. If one fails the whole sequence
// fails and nothing is consumed.
func Sequence(rules ...Rule) Rule {
	return sequence(rules)
}

func (r sequence) match(s *state, pos int) (int, []*Span, bool) {
	cur := pos
	var spans []*Span
	for _, item := range r {
		next, captured, ok := item.match(s, cur)
		if !ok {
			return pos, nil, false
		}
		spans = append(spans, captured...)
		cur = next
	}
	return cur, spans, true
}

func (r sequence) String() string { return joinRules([]Rule(r), " ") }

type choice []Rule

// Choice tries each alternative from the same position and keeps the first
// one that matches. Later alternatives are not tried after a success, so
// longer tokens must be listed before their prefixes.
func Choice(alternatives ...Rule) Rule {
	return choice(alternatives)
}

func (r choice) match(s *state, pos int) (int, []*Span, bool) {
	for _, alt := range r {
		if next, captured, ok := alt.match(s, pos); ok {
			return next, captured, true
		}
	}
	return pos, nil, false
}

func (r choice) String() string { return joinRules([]Rule(r), " | ") }

type opt struct {
	rule Rule
}

// Opt matches rule or nothing.
func Opt(rule Rule) Rule {
	return opt{rule: rule}
}

func (r opt) match(s *state, pos int) (int, []*Span, bool) {
	if next, captured, ok := r.rule.match(s, pos); ok {
		return next, captured, true
	}
	return pos, nil, true
}

func (r opt) String() string { return r.rule.String() + "?" }

type zeroOrMore struct {
	rule Rule
}

// ZeroOrMore matches rule as many times as it can, possibly zero.
func ZeroOrMore(rule Rule) Rule {
	return zeroOrMore{rule: rule}
}

func (r zeroOrMore) match(s *state, pos int) (int, []*Span, bool) {
	next, spans := repeat(s, r.rule, pos)
	return next, spans, true
}

func (r zeroOrMore) String() string { return r.rule.String() + "*" }

type oneOrMore struct {
	rule Rule
}

// OneOrMore matches rule at least once and then as many times as it can.
func OneOrMore(rule Rule) Rule {
	return oneOrMore{rule: rule}
}

func (r oneOrMore) match(s *state, pos int) (int, []*Span, bool) {
	first, spans, ok := r.rule.match(s, pos)
	if !ok {
		return pos, nil, false
	}
	next, more := repeat(s, r.rule, first)
	return next, append(spans, more...), true
}

func (r oneOrMore) String() string { return r.rule.String() + "+" }

// repeat applies rule until it fails or stops consuming input.
func repeat(s *state, rule Rule, pos int) (int, []*Span) {
	var spans []*Span
	for {
		next, captured, ok := rule.match(s, pos)
		if !ok || next == pos {
			return pos, spans
		}
		spans = append(spans, captured...)
		pos = next
	}
}

type not struct {
	rule Rule
}

// Not succeeds without consuming input when rule does not match at the
// cursor, and fails when it does.
func Not(rule Rule) Rule {
	return not{rule: rule}
}

func (r not) match(s *state, pos int) (int, []*Span, bool) {
	s.lookahead++
	_, _, ok := r.rule.match(s, pos)
	s.lookahead--
	if ok {
		s.fail(pos)
		return pos, nil, false
	}
	return pos, nil, true
}

func (r not) String() string { return "!" + r.rule.String() }

type ref struct {
	name string
}

// Ref matches the named rule of the grammar it is used in. Unless the
// named rule is silent, a successful match captures one Span wrapping the
// spans captured inside it.
func Ref(name string) Rule {
	return ref{name: name}
}

func (r ref) match(s *state, pos int) (int, []*Span, bool) {
	def, ok := s.grammar.rules[r.name]
	if !ok {
		s.fail(pos)
		return pos, nil, false
	}
	next, children, ok := def.Rule.match(s, pos)
	if !ok {
		return pos, nil, false
	}
	if def.Silent {
		return next, nil, true
	}
	return next, []*Span{{Rule: r.name, Start: pos, End: next, Children: children}}, true
}

func (r ref) String() string { return r.name }

func joinRules(rules []Rule, sep string) string {
	parts := make([]string, len(rules))
	for i, rule := range rules {
		parts[i] = rule.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// walk visits rule and every rule nested inside it. It does not follow
// references.
func walk(rule Rule, visit func(Rule)) {
	visit(rule)
	switch r := rule.(type) {
	case sequence:
		for _, item := range r {
			walk(item, visit)
		}
	case choice:
		for _, alt := range r {
			walk(alt, visit)
		}
	case opt:
		walk(r.rule, visit)
	case zeroOrMore:
		walk(r.rule, visit)
	case oneOrMore:
		walk(r.rule, visit)
	case not:
		walk(r.rule, visit)
	}
}
