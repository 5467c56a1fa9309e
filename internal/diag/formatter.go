package diag

import (
	"fmt"
	"io"
	"os"
)

// Formatter prints diagnostics to stderr with a `file(line:col):
// message` prefix: a severity-tagged, optionally-coded, single-line
// header per diagnostic, plus suggestion/note lines.
type Formatter struct {
	Out io.Writer
}

// NewFormatter creates a formatter writing to stderr.
func NewFormatter() *Formatter {
	return &Formatter{Out: os.Stderr}
}

// Format writes one diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	out := f.Out
	if out == nil {
		out = os.Stderr
	}

	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}

	loc := ""
	if d.Span.IsValid() {
		filename := d.Span.Filename
		if filename == "" {
			filename = "<unknown>"
		}
		loc = fmt.Sprintf("%s(%d:%d): ", filename, d.Span.Line, d.Span.Column)
	}

	if d.Code != "" {
		fmt.Fprintf(out, "%s%s[%s]: %s\n", loc, severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(out, "%s%s: %s\n", loc, severity, d.Message)
	}

	for _, note := range d.Notes {
		fmt.Fprintf(out, "  note: %s\n", note)
	}
	if d.Suggestion != "" {
		fmt.Fprintf(out, "  help: %s\n", d.Suggestion)
	}
}

// FormatAll writes every diagnostic in the bag, in order.
func (f *Formatter) FormatAll(b *Bag) {
	for _, d := range b.Entries() {
		f.Format(d)
	}
}
