package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatterIncludesFileLineColumnPrefix(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Out: &buf}

	f.Format(Diagnostic{
		Stage:    StageCodegen,
		Severity: SeverityError,
		Code:     CodeHashCollision,
		Message:  `error names "Oops" and "Oops_Alt" hash to the same id`,
		Span:     Span{Filename: "main.uya", Line: 12, Column: 3},
	})

	assert.Contains(t, buf.String(), "main.uya(12:3): ")
	assert.Contains(t, buf.String(), string(CodeHashCollision))
}

func TestFormatterOmitsLocationWhenSpanInvalid(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Out: &buf}
	f.Format(Diagnostic{Severity: SeverityError, Message: "no AST root"})
	assert.Equal(t, "error: no AST root\n", buf.String())
}

func TestBagHasErrors(t *testing.T) {
	var b Bag
	assert.False(t, b.HasErrors())
	b.Add(Diagnostic{Severity: SeverityWarning, Message: "w"})
	assert.False(t, b.HasErrors())
	b.Add(Diagnostic{Severity: SeverityError, Message: "e"})
	assert.True(t, b.HasErrors())
	assert.Len(t, b.Entries(), 2)
}
