package grammar

import (
	"errors"
	"fmt"
)

// Definition binds a rule to a name. Silent rules match like any other but
// capture no span, which suits whitespace and other separators.
type Definition struct {
	Name   string
	Rule   Rule
	Silent bool
}

// Grammar is a validated, immutable set of named rules.
type Grammar struct {
	rules map[string]Definition
	names []string
}

// NewGrammar checks the definitions and builds a grammar from them.
// Names must be unique and every Ref must point at a defined rule.
func NewGrammar(defs ...Definition) (*Grammar, error) {
	g := &Grammar{
		rules: make(map[string]Definition, len(defs)),
		names: make([]string, 0, len(defs)),
	}

	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("rule definition without a name")
		}
		if def.Rule == nil {
			return nil, fmt.Errorf("rule %q has no expression", def.Name)
		}
		if _, exists := g.rules[def.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, def.Name)
		}
		g.rules[def.Name] = def
		g.names = append(g.names, def.Name)
	}

	for _, name := range g.names {
		var missing []string
		walk(g.rules[name].Rule, func(r Rule) {
			if rf, ok := r.(ref); ok {
				if _, defined := g.rules[rf.name]; !defined {
					missing = append(missing, rf.name)
				}
			}
		})
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %q used by %q", ErrUndefinedRule, missing[0], name)
		}
	}

	return g, nil
}

// Rules returns the rule names in definition order.
func (g *Grammar) Rules() []string {
	names := make([]string, len(g.names))
	copy(names, g.names)
	return names
}

// Has reports whether a rule called name is defined.
func (g *Grammar) Has(name string) bool {
	_, ok := g.rules[name]
	return ok
}

// Match applies the named rule at the start of input. On success the
// returned span is named after the rule and starts at offset 0; it ends
// wherever the rule's definition is satisfied, which is not necessarily
// the end of input. On failure the error is a *MatchError.
func (g *Grammar) Match(rule, input string) (*Span, error) {
	def, ok := g.rules[rule]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, rule)
	}

	s := newState(g, input)
	end, children, ok := def.Rule.match(s, 0)
	if !ok {
		return nil, s.err(rule)
	}
	if def.Silent {
		children = nil
	}

	return &Span{Rule: rule, Start: 0, End: end, Children: children}, nil
}
