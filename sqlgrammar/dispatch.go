package sqlgrammar

import (
	"errors"
	"fmt"
	"slices"

	g "github.com/theronib/sql-parser/grammar"
)

// DefaultPriority is the order in which Dispatch tries top-level rules.
// Full statements come before fragments. Adding a top-level rule means
// adding its name here.
var DefaultPriority = []string{
	RuleQuery,
	RuleInsert,
	RuleCondition,
	RuleMultipleConditions,
	RuleOrderBy,
}

// ErrUnparseable is returned by Dispatch when no rule in the priority
// table matches the line.
var ErrUnparseable = errors.New("cannot parse line")

// Dispatcher tries a fixed list of rules against a line and reports the
// first one that matches.
type Dispatcher struct {
	grammar  *g.Grammar
	priority []string
}

// NewDispatcher returns a dispatcher for the given priority table. A nil or
// empty table selects DefaultPriority. Every name must be a rule of the SQL
// grammar and may appear only once.
func NewDispatcher(priority []string) (*Dispatcher, error) {
	if len(priority) == 0 {
		priority = DefaultPriority
	}

	seen := make(map[string]bool, len(priority))
	for _, name := range priority {
		if !sqlGrammar.Has(name) {
			return nil, fmt.Errorf("%w: %q", g.ErrUnknownRule, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("rule %q listed more than once", name)
		}
		seen[name] = true
	}

	return &Dispatcher{
		grammar:  sqlGrammar,
		priority: slices.Clone(priority),
	}, nil
}

// Priority returns the rules in the order they are tried.
func (d *Dispatcher) Priority() []string {
	return slices.Clone(d.priority)
}

// Dispatch returns the span of the first rule in the priority table that
// matches line. When none does, the error wraps ErrUnparseable and the
// *grammar.MatchError that got furthest into the line.
func (d *Dispatcher) Dispatch(line string) (*g.Span, error) {
	var deepest *g.MatchError

	for _, rule := range d.priority {
		span, err := d.grammar.Match(rule, line)
		if err == nil {
			return span, nil
		}

		var me *g.MatchError
		if !errors.As(err, &me) {
			return nil, err
		}
		if deepest == nil || me.Offset > deepest.Offset {
			deepest = me
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrUnparseable, deepest)
}
