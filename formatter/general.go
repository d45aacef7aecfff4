package formatter

// FailureData is the input of the verbose failure template.
type FailureData struct {
	Filename        string
	Line            int
	Column          int
	Offset          int
	Text            string
	Message         string
	MaxLineNumWidth int
	Padding         string
}

const failureTemplate = `{{header .Filename .Line .Column .MaxLineNumWidth -}}
{{snippet .Text .Line .MaxLineNumWidth .Padding -}}
{{caretAndMessage .Message .Text .Offset .Padding}}`
