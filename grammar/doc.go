/*
Package grammar implements a small ordered-choice (PEG style) matching engine.

A grammar is a set of named rules. Each rule is built from combinators:

  - Literal and Regex match text at the cursor.
  - Sequence matches its parts one after another.
  - Choice tries alternatives in order and keeps the first success.
  - Opt, ZeroOrMore and OneOrMore repeat a rule.
  - Not is a negative lookahead that never consumes input.
  - Ref refers to another named rule.

Matching never mutates the input. Every combinator receives a position and
either returns the position after what it consumed or fails without moving,
so a failed alternative leaves the cursor where the choice started.

Named rules capture a Span carrying the rule name, the byte range it covered
and the spans captured below it. Anonymous combinators are transparent and
silent rules (whitespace, for example) capture nothing.

# Usage

	g, err := grammar.NewGrammar(
		grammar.Definition{Name: "digits", Rule: grammar.Regex(`[0-9]+`)},
		grammar.Definition{Name: "pair", Rule: grammar.Sequence(
			grammar.Ref("digits"), grammar.Literal(","), grammar.Ref("digits"),
		)},
	)
	if err != nil {
		// duplicate or undefined rule
	}

	span, err := g.Match("pair", "12,34")
	if errors.Is(err, grammar.ErrNoMatch) {
		// the input is not a pair
	}

Matching is anchored at the start of the input but not at its end: a rule
succeeds as soon as its own definition is satisfied.
*/
package grammar
