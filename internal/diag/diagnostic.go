// Package diag defines the diagnostics the C99 lowering engine produces:
// input-invariant failures, unsupported-construct notices, allocation
// failures, hash collisions, capacity exhaustion, and unevaluable
// compile-time arithmetic.
package diag

// Stage identifies which compiler phase produced the diagnostic. The
// lexer/parser/checker stages are listed for completeness even though
// this repository only ever produces StageCodegen diagnostics — they
// are external, upstream collaborators this package never runs itself.
type Stage string

const (
	StageLexer    Stage = "lexer"
	StageParser   Stage = "parser"
	StageChecker  Stage = "checker"
	StageCodegen  Stage = "codegen"
	StageOrchestr Stage = "orchestrator"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic, grouped by failure kind.
type Code string

const (
	CodeInputInvariant       Code = "CG_INPUT_INVARIANT"
	CodeUnsupportedConstruct Code = "CG_UNSUPPORTED_CONSTRUCT"
	CodeAllocationFailure    Code = "CG_ALLOCATION_FAILURE"
	CodeHashCollision        Code = "CG_HASH_COLLISION"
	CodeCapacityExceeded     Code = "CG_CAPACITY_EXCEEDED"
	CodeUnevaluableConstant  Code = "CG_UNEVALUABLE_CONSTANT"
	CodeTypeMappingError     Code = "CG_TYPE_MAPPING_ERROR"
	CodeUndefinedIdentifier  Code = "CG_UNDEFINED_IDENTIFIER"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
}

// IsValid reports whether the span carries a usable location.
func (s Span) IsValid() bool { return s.Line > 0 }

// Diagnostic is a compiler diagnostic surfaced to end-users, formatted by
// Formatter with a file(line:col) prefix.
type Diagnostic struct {
	Stage      Stage
	Severity   Severity
	Code       Code
	Message    string
	Suggestion string
	Span       Span
	Notes      []string
}

// Bag accumulates diagnostics over the course of one generation run.
type Bag struct {
	entries []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) { b.entries = append(b.entries, d) }

// Entries returns the accumulated diagnostics in emission order.
func (b *Bag) Entries() []Diagnostic { return b.entries }

// HasErrors reports whether any accumulated diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for _, d := range b.entries {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
