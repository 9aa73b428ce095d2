package fhirpath

import (
	"github.com/gofhir/sqlonfhir/fhirvalue"
	"github.com/gofhir/sqlonfhir/issue"
)

// coerceBoolean implements the dialect's boolean-coercion rule (spec
// §4.2): an empty sequence coerces to false, a single boolean keeps its
// value, and anything else — a non-boolean singleton, or more than one
// element — is an evaluation error rather than a guess.
func coerceBoolean(seq Sequence) (bool, error) {
	switch len(seq) {
	case 0:
		return false, nil
	case 1:
		b, ok := seq[0].AsBool()
		if !ok {
			return false, issue.New(issue.EvaluationError, "expected boolean, got %s", seq[0].Type())
		}
		return b, nil
	default:
		return false, issue.New(issue.EvaluationError, "expected boolean singleton, got %d values", len(seq))
	}
}

func boolSeq(b bool) Sequence {
	return Sequence{fhirvalue.New(b, "boolean")}
}

// CoerceBoolean exposes the dialect's boolean-coercion rule to callers
// outside the package, notably the row generator's where-clause
// evaluation, which applies the exact same rule to a compiled
// predicate's result.
func CoerceBoolean(seq Sequence) (bool, error) {
	return coerceBoolean(seq)
}
