// Package sqlgrammar defines the SQL subset recognized by sqlparse: SELECT
// queries with optional WHERE and ORDER BY clauses, INSERT statements, and
// the condition and clause fragments they are built from.
package sqlgrammar

import (
	g "github.com/theronib/sql-parser/grammar"
)

// Rule names.
const (
	RuleName               = "name"
	RuleIdent              = "ident"
	RuleNumber             = "number"
	RuleString             = "string"
	RuleValue              = "value"
	RuleComparisonOperator = "comparison_operator"
	RuleCondition          = "condition"
	RuleMultipleConditions = "multiple_conditions"
	RuleDirection          = "direction"
	RuleOrderBy            = "order_by"
	RuleColumnList         = "column_list"
	RuleValueList          = "value_list"
	RuleQuery              = "query"
	RuleInsert             = "insert"

	ruleWhitespace         = "ws"
	ruleOptionalWhitespace = "optws"
)

const identChars = `[A-Za-z0-9_]`

var (
	ws    = g.Ref(ruleWhitespace)
	optws = g.Ref(ruleOptionalWhitespace)

	// wordEnd rejects a token that runs straight into identifier characters,
	// so "18abc" is not a number and "ANDROID" is not AND.
	wordEnd = g.Not(g.Regex(identChars))
)

func keyword(word string) g.Rule {
	return g.Sequence(g.Literal(word), wordEnd)
}

// phrase matches keywords separated by whitespace, e.g. ORDER BY.
func phrase(words ...string) g.Rule {
	rules := make([]g.Rule, 0, 2*len(words)-1)
	for i, word := range words {
		if i > 0 {
			rules = append(rules, ws)
		}
		rules = append(rules, keyword(word))
	}
	return g.Sequence(rules...)
}

func commaList(item g.Rule) g.Rule {
	return g.Sequence(
		item,
		g.ZeroOrMore(g.Sequence(optws, g.Literal(","), optws, item)),
	)
}

var definitions = []g.Definition{
	{Name: ruleWhitespace, Rule: g.Regex(`[ \t]+`), Silent: true},
	{Name: ruleOptionalWhitespace, Rule: g.Regex(`[ \t]*`), Silent: true},

	// lexical primitives
	{Name: RuleName, Rule: g.Regex(identChars + `+`)},
	{Name: RuleIdent, Rule: g.Regex(identChars + `+`)},
	{Name: RuleNumber, Rule: g.Sequence(g.Regex(`[0-9]+`), wordEnd)},
	{Name: RuleString, Rule: g.Regex(`'[^']*'`)},
	{Name: RuleComparisonOperator, Rule: g.Choice(
		g.Literal(">="),
		g.Literal("<="),
		g.Literal("!="),
		g.Literal("="),
		g.Literal("<"),
		g.Literal(">"),
	)},
	{Name: RuleValue, Rule: g.Choice(g.Ref(RuleNumber), g.Ref(RuleString))},

	// conditions
	{Name: RuleCondition, Rule: g.Sequence(
		g.Ref(RuleName), ws,
		g.Ref(RuleComparisonOperator), ws,
		g.Ref(RuleValue),
	)},
	{Name: RuleMultipleConditions, Rule: g.Sequence(
		g.Ref(RuleCondition),
		g.ZeroOrMore(g.Sequence(ws, keyword("AND"), ws, g.Ref(RuleCondition))),
	)},

	// clauses
	{Name: RuleDirection, Rule: g.Choice(keyword("ASC"), keyword("DESC"))},
	{Name: RuleOrderBy, Rule: g.Sequence(
		phrase("ORDER", "BY"), ws,
		g.Ref(RuleName),
		g.Opt(g.Sequence(ws, g.Ref(RuleDirection))),
	)},
	{Name: RuleColumnList, Rule: commaList(g.Ref(RuleName))},
	{Name: RuleValueList, Rule: commaList(g.Ref(RuleValue))},

	// statements
	{Name: RuleQuery, Rule: g.Sequence(
		keyword("SELECT"), ws,
		g.Ref(RuleName), ws,
		keyword("FROM"), ws,
		g.Ref(RuleName),
		g.Opt(g.Sequence(ws, keyword("WHERE"), ws, g.Ref(RuleMultipleConditions))),
		g.Opt(g.Sequence(ws, g.Ref(RuleOrderBy))),
		optws, g.Literal(";"),
	)},
	{Name: RuleInsert, Rule: g.Sequence(
		phrase("INSERT", "INTO"), ws,
		g.Ref(RuleName), optws,
		g.Literal("("), optws, g.Ref(RuleColumnList), optws, g.Literal(")"), ws,
		keyword("VALUES"), optws,
		g.Literal("("), optws, g.Ref(RuleValueList), optws, g.Literal(")"), optws,
		g.Literal(";"),
	)},
}

var sqlGrammar *g.Grammar

func init() {
	grammar, err := g.NewGrammar(definitions...)
	if err != nil {
		panic(err)
	}
	sqlGrammar = grammar
}

// Grammar returns the SQL grammar. It is immutable and safe for concurrent use.
func Grammar() *g.Grammar {
	return sqlGrammar
}

// Match applies one named rule to input. See grammar.Grammar.Match.
func Match(rule, input string) (*g.Span, error) {
	return sqlGrammar.Match(rule, input)
}
