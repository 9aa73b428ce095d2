// Package fhirpath implements the restricted FHIRPath dialect the
// row generator uses to navigate FHIR resources and evaluate
// column/where/forEach expressions. It supports field navigation,
// indexing, ofType() type filtering, $this, a fixed allow-list of
// functions, typed literals, and the four dialect operators (= != and
// or) plus not(). There is no delegate to a general-purpose FHIRPath
// engine: the dialect is deliberately smaller than full FHIRPath, and
// hand-rolling it keeps every supported construct auditable in one
// package.
package fhirpath

import (
	"github.com/gofhir/sqlonfhir/fhirvalue"
	"github.com/gofhir/sqlonfhir/issue"
)

// Sequence is the evaluator's only value shape: FHIRPath has no scalar
// type distinct from a one-element sequence.
type Sequence []fhirvalue.Node

// Evaluate runs a compiled expression against a focus sequence,
// returning the resulting sequence. focus is typically a single
// resource/element node; multi-element focus arises when Evaluate is
// invoked recursively for where()/select() bodies.
func Evaluate(expr Expr, focus Sequence) (Sequence, error) {
	switch e := expr.(type) {
	case ThisExpr:
		return focus, nil

	case LiteralExpr:
		return Sequence{e.Value}, nil

	case PathExpr:
		base := focus
		if e.Base != nil {
			var err error
			base, err = Evaluate(e.Base, focus)
			if err != nil {
				return nil, err
			}
		}
		return navigate(base, e.Name), nil

	case IndexExpr:
		base, err := Evaluate(e.Base, focus)
		if err != nil {
			return nil, err
		}
		idxSeq, err := Evaluate(e.Index, focus)
		if err != nil {
			return nil, err
		}
		return indexInto(base, idxSeq)

	case CallExpr:
		return evalCall(e, focus)

	case NotExpr:
		arg, err := Evaluate(e.Arg, focus)
		if err != nil {
			return nil, err
		}
		b, err := coerceBoolean(arg)
		if err != nil {
			return nil, err
		}
		return boolSeq(!b), nil

	case BinaryExpr:
		return evalBinary(e, focus)

	default:
		return nil, issue.New(issue.EvaluationError, "unsupported expression node %T", expr)
	}
}

// navigate resolves a field name against every node in base, flattening
// array-valued fields into the result (FHIRPath's element-wise
// navigation over sequences) and silently dropping nodes where the
// field is absent or the base isn't complex.
func navigate(base Sequence, name string) Sequence {
	var out Sequence
	for _, n := range base {
		v, ok := n.Field(name)
		if !ok {
			continue
		}
		if v.IsArray() {
			out = append(out, v.Elements()...)
		} else {
			out = append(out, v)
		}
	}
	return out
}

func indexInto(base Sequence, idxSeq Sequence) (Sequence, error) {
	if len(idxSeq) != 1 {
		return nil, issue.New(issue.EvaluationError, "index expression must evaluate to a single integer, got %d values", len(idxSeq))
	}
	idx, ok := asInt(idxSeq[0])
	if !ok {
		return nil, issue.New(issue.EvaluationError, "index expression must evaluate to a whole number")
	}
	if idx < 0 || idx >= len(base) {
		return nil, nil
	}
	return Sequence{base[idx]}, nil
}

// asInt converts a numeric literal node to a Go int without depending
// on apd's own integer-conversion API surface: numeric literals in this
// dialect are stored as their original decimal text, which is safe to
// round-trip through strconv for the small whole numbers indexing uses.
func asInt(n fhirvalue.Node) (int, bool) {
	s, ok := n.AsString()
	if !ok {
		if f, ok := n.AsFloat64(); ok {
			return int(f), true
		}
		return 0, false
	}
	var neg bool
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	val := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		val = val*10 + int(s[i]-'0')
	}
	if neg {
		val = -val
	}
	return val, true
}
