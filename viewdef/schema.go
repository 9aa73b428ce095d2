package viewdef

import (
	"regexp"
	"strings"

	"github.com/gofhir/sqlonfhir/specs"
)

// ofTypeArg captures the argument of a trailing .ofType(Type) call, the
// unambiguous case for missing-type inference: the type is named
// directly in the path, no lookup table needed.
var ofTypeArg = regexp.MustCompile(`\.ofType\(([A-Za-z][A-Za-z0-9]*)\)\s*$`)

// identSegment matches one dotted segment of a plain navigation chain.
var identSegment = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*`)

// staticNavigationPrefix extracts the leading dotted field-navigation
// chain of a path, e.g. "code.coding" out of
// "code.coding.where(system = 'x').system". It stops before any
// segment that is itself a function call (immediately followed by
// '(' in the source text) rather than a field name, so a where()/
// select()/exists() call in the middle of a path doesn't get
// mistaken for a navigation segment.
func staticNavigationPrefix(path string) string {
	var segments []string
	rest := path
	for {
		m := identSegment.FindString(rest)
		if m == "" {
			break
		}
		afterIdent := rest[len(m):]
		if strings.HasPrefix(afterIdent, "(") {
			break
		}
		segments = append(segments, m)
		if !strings.HasPrefix(afterIdent, ".") {
			break
		}
		rest = afterIdent[1:]
	}
	return strings.Join(segments, ".")
}

// inferColumnType implements spec §9's missing-type-inference note: a
// Column with no declared type is resolved either from an explicit
// ofType() argument (unambiguous) or from the embedded primitive-type
// table keyed by resourceType + "." + elementPath, falling back to
// "string" when neither applies. rawPath is the column's path before
// constant substitution: %tokens never appear in a bare navigation
// chain the table would recognise, so substitution order doesn't
// matter here.
func inferColumnType(resourceType, rawPath string) string {
	if m := ofTypeArg.FindStringSubmatch(rawPath); m != nil {
		return m[1]
	}

	prefix := staticNavigationPrefix(strings.TrimSpace(rawPath))
	if prefix == "" {
		return "string"
	}
	if t, ok := specs.PrimitiveTypeOf(resourceType, prefix); ok {
		return t
	}
	return "string"
}
