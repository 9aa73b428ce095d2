// Package issue defines the closed error taxonomy shared by the
// ViewDefinition parser, the FHIRPath evaluator, and the row generator.
package issue

import (
	"fmt"

	"github.com/gofhir/sqlonfhir/pool"
)

// Kind is a closed, flat error category. It never nests: a parser error
// is always ParseError, never wrapped inside InvalidViewDefinition.
type Kind string

// The four error kinds. There are no others.
const (
	// InvalidViewDefinition covers structural/validation failures: bad
	// name, empty resource, malformed constant, undefined constant
	// reference, duplicate column, incompatible union branches.
	InvalidViewDefinition Kind = "InvalidViewDefinition"

	// ParseError covers malformed JSON or malformed FHIRPath syntax.
	ParseError Kind = "ParseError"

	// EvaluationError covers FHIRPath runtime failures: unknown
	// function, arity mismatch, type error in comparison, non-singleton
	// where a singleton is required.
	EvaluationError Kind = "EvaluationError"

	// UnsupportedFhirVersion covers unrecognised fhirVersion strings.
	UnsupportedFhirVersion Kind = "UnsupportedFhirVersion"
)

// Error is a structured failure surfaced by the engine. It carries a
// breadcrumb identifying the offending Select/Column/Constant so a
// caller can locate the problem in the source ViewDefinition without
// re-parsing it.
type Error struct {
	Kind       Kind
	Message    string
	Breadcrumb string // e.g. "select.[0].column.[2]" or "constant[threshold]"
	Cause      error
}

func (e *Error) Error() string {
	if e.Breadcrumb == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Breadcrumb, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with no breadcrumb.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At creates an Error anchored to a breadcrumb.
func At(kind Kind, breadcrumb, format string, args ...any) *Error {
	return &Error{Kind: kind, Breadcrumb: breadcrumb, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that carries an underlying cause, preserving it
// for errors.Is/errors.As while presenting a taxonomy-conformant Kind.
func Wrap(kind Kind, breadcrumb string, cause error) *Error {
	return &Error{Kind: kind, Breadcrumb: breadcrumb, Message: cause.Error(), Cause: cause}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// Breadcrumb builds a dotted breadcrumb from path segments, using the
// same pooled byte-buffer builder the teacher uses for its own
// validation-path strings, scoped to the small vocabulary ViewDefinition
// breadcrumbs need (select/column/constant/where indices and names).
func Breadcrumb(segments ...string) string {
	return pool.JoinPath(segments...)
}
