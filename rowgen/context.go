package rowgen

import "github.com/gofhir/sqlonfhir/fhirpath"

// evalContext is the navigation focus a Select's own columns and
// nested selects run against. isNull marks the sentinel context a
// forEachOrNull produces when its iteration expression evaluates to an
// empty sequence (spec §4.3): every descendant column reached through
// a null context resolves to absent without ever evaluating its
// expression, rather than running fhirpath.Evaluate against a focus
// with nothing in it.
type evalContext struct {
	focus  fhirpath.Sequence
	isNull bool
}

func rootContext(resource fhirpath.Sequence) evalContext {
	return evalContext{focus: resource}
}

func nullContext() evalContext {
	return evalContext{isNull: true}
}
