package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/theronib/sql-parser/grammar"
	tt "github.com/theronib/sql-parser/internal/types"
)

const tabWidth = 8

// sourceName is shown for results that did not come from a file.
const sourceName = "<source>"

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	parsedStyle  = color.New(color.FgGreen, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noStyle      = color.New(color.FgWhite)
)

// Write renders successes to out and failures to errOut, in order.
func Write(out, errOut io.Writer, results []tt.LineResult, verbose bool) error {
	for _, r := range results {
		var err error
		if r.Parsed() {
			_, err = io.WriteString(out, GenerateParsed(r))
		} else {
			_, err = io.WriteString(errOut, GenerateFailure(r, verbose))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// GenerateJSON encodes results as an indented JSON array.
func GenerateJSON(results []tt.LineResult) ([]byte, error) {
	if results == nil {
		results = []tt.LineResult{}
	}
	return json.MarshalIndent(results, "", "  ")
}

// GenerateParsed renders a parsed line as "Parsed: " followed by its span
// tree, one span per line, children indented below their parent.
func GenerateParsed(r tt.LineResult) string {
	var b strings.Builder
	b.WriteString(parsedStyle.Sprint("Parsed: "))
	writeSpan(&b, r.Span, r.Text, 0)
	return b.String()
}

func writeSpan(b *strings.Builder, span *grammar.Span, input string, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(ruleStyle.Sprint(span.Rule))
	b.WriteString(lineStyle.Sprintf(" [%d..%d] ", span.Start, span.End))
	b.WriteString(noStyle.Sprintf("%q", span.Text(input)))
	b.WriteByte('\n')
	for _, child := range span.Children {
		writeSpan(b, child, input, depth+1)
	}
}

/***** Failure Builder *****/

var failureTmpl = template.Must(template.New("failure").Funcs(template.FuncMap{
	"header":          header,
	"snippet":         codeSnippet,
	"caretAndMessage": caretAndMessage,
}).Parse(failureTemplate))

// GenerateFailure renders a line that did not parse. The short form is a
// single line; the verbose form points at the furthest offset reached.
func GenerateFailure(r tt.LineResult, verbose bool) string {
	if !verbose {
		return errorStyle.Sprint("Error: ") + fmt.Sprintf("cannot parse line: %s\n", r.Text)
	}

	filename := r.Filename
	if filename == "" {
		filename = sourceName
	}
	maxLineNumWidth := calculateMaxLineNumWidth(r.Line)

	data := FailureData{
		Filename:        filename,
		Line:            r.Line,
		Column:          r.Column + r.Offset,
		Offset:          r.Offset,
		Text:            r.Text,
		Message:         failureReason(r),
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
	}

	var buf bytes.Buffer
	if err := failureTmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting failure: %v\n", err)
	}
	return buf.String()
}

// failureReason is the detail shown under the caret; the header already
// says the line could not be parsed.
func failureReason(r tt.LineResult) string {
	if r.Reason != "" {
		return r.Reason
	}
	return r.Error
}

// utils functions used in the text template

func header(filename string, line int, column int, maxLineNumWidth int) string {
	endString := errorStyle.Sprint("error: ")
	endString += ruleStyle.Sprintf("%s\n", "cannot parse line")

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d\n", filename, line, column)

	return endString
}

func codeSnippet(text string, line int, maxLineNumWidth int, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	endString += lineStyle.Sprintf("%*d | ", maxLineNumWidth, line)
	endString += fmt.Sprintf("%s\n", text)
	return endString
}

func caretAndMessage(message string, text string, offset int, padding string) string {
	endString := lineStyle.Sprintf("%s| ", padding)
	endString += strings.Repeat(" ", calculateVisualColumn(text, offset+1))
	endString += messageStyle.Sprint("^\n")

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)
	return endString
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// calculateVisualColumn calculates the visual column position
// in a string. taking into account tab characters.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}
