package fhirpath

import (
	"strings"

	"github.com/gofhir/sqlonfhir/fhirvalue"
	"github.com/gofhir/sqlonfhir/issue"
)

// allowedFunctions is the dialect's closed function vocabulary (spec
// §4.2). Anything else is a compile-time-shaped but runtime-detected
// EvaluationError, since the parser has no static function table to
// reject unknown names against ahead of evaluation.
var allowedFunctions = map[string]bool{
	"exists": true, "empty": true, "first": true, "last": true,
	"count": true, "where": true, "select": true, "join": true,
	"toString": true, "ofType": true, "not": true,
	"getResourceKey": true, "getReferenceKey": true,
}

func evalCall(e CallExpr, focus Sequence) (Sequence, error) {
	if !allowedFunctions[e.Name] {
		return nil, issue.New(issue.EvaluationError, "unsupported function %q", e.Name)
	}

	// ofType's argument names a type, not an expression to evaluate: a
	// bare identifier like "dateTime" would otherwise navigate to a
	// (nonexistent) field of that name.
	if e.Name == "ofType" {
		return evalOfType(e, focus)
	}

	base := focus
	if e.Base != nil {
		var err error
		base, err = Evaluate(e.Base, focus)
		if err != nil {
			return nil, err
		}
	}

	switch e.Name {
	case "exists":
		return boolSeq(len(base) > 0), nil
	case "empty":
		return boolSeq(len(base) == 0), nil
	case "first":
		if len(base) == 0 {
			return nil, nil
		}
		return Sequence{base[0]}, nil
	case "last":
		if len(base) == 0 {
			return nil, nil
		}
		return Sequence{base[len(base)-1]}, nil
	case "count":
		return Sequence{fhirvalue.New(intToDecimalText(len(base)), "integer")}, nil
	case "where":
		return evalWhere(e, base)
	case "select":
		return evalSelect(e, base)
	case "join":
		return evalJoin(e, base, focus)
	case "toString":
		out := make(Sequence, len(base))
		for i, n := range base {
			out[i] = fhirvalue.New(n.ToDisplayString(), "string")
		}
		return out, nil
	case "getResourceKey":
		return evalGetResourceKey(base)
	case "getReferenceKey":
		return evalGetReferenceKey(e, base, focus)
	default:
		return nil, issue.New(issue.EvaluationError, "unsupported function %q", e.Name)
	}
}

func evalOfType(e CallExpr, focus Sequence) (Sequence, error) {
	if len(e.Args) != 1 {
		return nil, issue.New(issue.EvaluationError, "ofType() requires exactly one type argument")
	}
	typeName, ok := staticIdentName(e.Args[0])
	if !ok {
		return nil, issue.New(issue.EvaluationError, "ofType() argument must be a type name")
	}
	base := focus
	if e.Base != nil {
		var err error
		base, err = Evaluate(e.Base, focus)
		if err != nil {
			return nil, err
		}
	}
	var out Sequence
	for _, n := range base {
		if n.MatchesType(typeName) {
			out = append(out, n)
		}
	}
	return out, nil
}

// staticIdentName extracts a bare identifier's text without evaluating
// it, for the ofType(Type) form where the argument is a type name.
func staticIdentName(expr Expr) (string, bool) {
	if p, ok := expr.(PathExpr); ok && p.Base == nil {
		return p.Name, true
	}
	return "", false
}

func evalWhere(e CallExpr, base Sequence) (Sequence, error) {
	if len(e.Args) != 1 {
		return nil, issue.New(issue.EvaluationError, "where() requires exactly one criteria argument")
	}
	var out Sequence
	for _, n := range base {
		result, err := Evaluate(e.Args[0], Sequence{n})
		if err != nil {
			return nil, err
		}
		keep, err := coerceBoolean(result)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, n)
		}
	}
	return out, nil
}

func evalSelect(e CallExpr, base Sequence) (Sequence, error) {
	if len(e.Args) != 1 {
		return nil, issue.New(issue.EvaluationError, "select() requires exactly one projection argument")
	}
	var out Sequence
	for _, n := range base {
		result, err := Evaluate(e.Args[0], Sequence{n})
		if err != nil {
			return nil, err
		}
		out = append(out, result...)
	}
	return out, nil
}

func evalJoin(e CallExpr, base, focus Sequence) (Sequence, error) {
	sep := ""
	if len(e.Args) == 1 {
		sepSeq, err := Evaluate(e.Args[0], focus)
		if err != nil {
			return nil, err
		}
		if len(sepSeq) == 1 {
			sep, _ = sepSeq[0].AsString()
		}
	} else if len(e.Args) > 1 {
		return nil, issue.New(issue.EvaluationError, "join() takes at most one separator argument")
	}
	parts := make([]string, len(base))
	for i, n := range base {
		parts[i] = n.ToDisplayString()
	}
	return Sequence{fhirvalue.New(strings.Join(parts, sep), "string")}, nil
}

func evalGetResourceKey(base Sequence) (Sequence, error) {
	var out Sequence
	for _, n := range base {
		key, ok := fhirvalue.ResourceKeyOf(n)
		if !ok {
			continue
		}
		out = append(out, fhirvalue.New(key, "string"))
	}
	return out, nil
}

func evalGetReferenceKey(e CallExpr, base, focus Sequence) (Sequence, error) {
	refType := ""
	if len(e.Args) == 1 {
		name, ok := staticIdentName(e.Args[0])
		if !ok {
			return nil, issue.New(issue.EvaluationError, "getReferenceKey() argument must be a resource type name")
		}
		refType = name
	} else if len(e.Args) > 1 {
		return nil, issue.New(issue.EvaluationError, "getReferenceKey() takes at most one type argument")
	}
	var out Sequence
	for _, n := range base {
		key, ok := n.GetReferenceKey(refType)
		if !ok {
			continue
		}
		out = append(out, fhirvalue.New(key, "string"))
	}
	return out, nil
}

func intToDecimalText(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
