// Package internal provides the line-oriented parsing engine used by the
// sqlparse command.
//
// Key components:
//
// Engine: Splits a source into lines, trims them, skips empty ones and hands
// each remaining line to a sqlgrammar.Dispatcher. Every line yields a
// types.LineResult holding either the matched rule and its span tree or the
// failure message and the furthest offset reached.
//
// Watcher: Watches files and directories with fsnotify and re-parses a file
// each time it is written.
//
// Usage:
//
//	engine, err := internal.NewEngine(nil) // default priority
//	if err != nil {
//	    // handle error
//	}
//
//	engine.IgnoreRule("order_by")
//
//	results, err := engine.Run("path/to/file.sql")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, r := range results {
//	    if r.Parsed() {
//	        fmt.Printf("%d: %s\n", r.Line, r.Span)
//	    }
//	}
//
// This package is intended for internal use within sqlparse and should not be
// imported by external packages.
package internal
