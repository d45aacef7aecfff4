package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/theronib/sql-parser/grammar"
	tt "github.com/theronib/sql-parser/internal/types"
	"github.com/theronib/sql-parser/sqlgrammar"
)

// Engine feeds the lines of a source through a rule dispatcher.
type Engine struct {
	priority     []string
	ignoredRules map[string]bool
	dispatcher   *sqlgrammar.Dispatcher
}

// NewEngine creates an engine trying the given rules in order. A nil
// priority uses sqlgrammar.DefaultPriority.
func NewEngine(priority []string) (*Engine, error) {
	if priority == nil {
		priority = sqlgrammar.DefaultPriority
	}

	dispatcher, err := sqlgrammar.NewDispatcher(priority)
	if err != nil {
		return nil, fmt.Errorf("invalid rule priority: %w", err)
	}

	return &Engine{
		priority:     dispatcher.Priority(),
		ignoredRules: make(map[string]bool),
		dispatcher:   dispatcher,
	}, nil
}

// IgnoreRule removes rule from the priority table. Unknown names are ignored.
// Once every rule is ignored no line parses.
func (e *Engine) IgnoreRule(rule string) {
	e.ignoredRules[rule] = true

	active := make([]string, 0, len(e.priority))
	for _, name := range e.priority {
		if !e.ignoredRules[name] {
			active = append(active, name)
		}
	}

	if len(active) == 0 {
		e.dispatcher = nil
		return
	}

	// active is a subset of an already validated table
	dispatcher, err := sqlgrammar.NewDispatcher(active)
	if err != nil {
		return
	}
	e.dispatcher = dispatcher
}

// Priority returns the rules currently tried, in order.
func (e *Engine) Priority() []string {
	if e.dispatcher == nil {
		return []string{}
	}
	return e.dispatcher.Priority()
}

// Run parses every non-empty line of the named file.
func (e *Engine) Run(filename string) ([]tt.LineResult, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return e.RunContent(filename, content), nil
}

// RunContent parses content already read from the named file.
func (e *Engine) RunContent(filename string, content []byte) []tt.LineResult {
	return e.parseLines(filename, content)
}

// RunSource parses every non-empty line of source.
func (e *Engine) RunSource(source []byte) ([]tt.LineResult, error) {
	return e.parseLines("", source), nil
}

// parseLines handles lines one after another; the outcome of one line
// never affects another.
func (e *Engine) parseLines(filename string, content []byte) []tt.LineResult {
	var results []tt.LineResult
	for i, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		column := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace)) + 1
		results = append(results, e.parseLine(filename, i+1, column, line))
	}
	return results
}

func (e *Engine) parseLine(filename string, lineNum, column int, line string) tt.LineResult {
	result := tt.LineResult{
		Filename: filename,
		Line:     lineNum,
		Column:   column,
		Text:     line,
	}

	if e.dispatcher == nil {
		result.Error = sqlgrammar.ErrUnparseable.Error()
		return result
	}

	span, err := e.dispatcher.Dispatch(line)
	if err != nil {
		result.Error = err.Error()
		var me *grammar.MatchError
		if errors.As(err, &me) {
			result.Reason = me.Error()
			result.Offset = me.Offset
		}
		return result
	}

	result.Rule = span.Rule
	result.Span = span
	return result
}
