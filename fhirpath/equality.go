package fhirpath

import "github.com/gofhir/sqlonfhir/fhirvalue"

func evalBinary(e BinaryExpr, focus Sequence) (Sequence, error) {
	switch e.Op {
	case "and", "or":
		left, err := Evaluate(e.Left, focus)
		if err != nil {
			return nil, err
		}
		right, err := Evaluate(e.Right, focus)
		if err != nil {
			return nil, err
		}
		lb, err := coerceBoolean(left)
		if err != nil {
			return nil, err
		}
		rb, err := coerceBoolean(right)
		if err != nil {
			return nil, err
		}
		if e.Op == "and" {
			return boolSeq(lb && rb), nil
		}
		return boolSeq(lb || rb), nil

	case "=", "!=":
		left, err := Evaluate(e.Left, focus)
		if err != nil {
			return nil, err
		}
		right, err := Evaluate(e.Right, focus)
		if err != nil {
			return nil, err
		}
		return equalitySeq(left, right, e.Op == "!="), nil

	default:
		return nil, nil
	}
}

// equalitySeq implements FHIRPath's sequence equality: empty if either
// side is empty (comparison against unknown data yields unknown, not
// false), otherwise a boolean singleton comparing length and pairwise
// element equality. Callers that need this feeding into a boolean
// context (where/and/or/not) run it through coerceBoolean, which turns
// the empty case into false per the dialect's coercion rule.
func equalitySeq(left, right Sequence, negate bool) Sequence {
	if len(left) == 0 || len(right) == 0 {
		return nil
	}
	equal := len(left) == len(right)
	if equal {
		for i := range left {
			if !nodesEqual(left[i], right[i]) {
				equal = false
				break
			}
		}
	}
	if negate {
		equal = !equal
	}
	return boolSeq(equal)
}

func nodesEqual(a, b fhirvalue.Node) bool {
	if da, ok := a.AsDecimal(); ok {
		if db, ok := b.AsDecimal(); ok {
			return da.Cmp(&db) == 0
		}
	}
	if sa, ok := a.AsString(); ok {
		if sb, ok := b.AsString(); ok {
			return sa == sb
		}
	}
	if ba, ok := a.AsBool(); ok {
		if bb, ok := b.AsBool(); ok {
			return ba == bb
		}
	}
	return false
}
