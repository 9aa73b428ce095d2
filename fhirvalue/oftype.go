package fhirvalue

import "strings"

// MatchesType reports whether the node's FHIR type satisfies an
// ofType(Type) filter. Type names are matched case-insensitively
// against the node's tag; untagged nodes (Type() == "") never match,
// since ofType is only meaningful on choice-resolved or otherwise
// explicitly typed values (spec §4.2 "ofType(Type) type filter").
func (n Node) MatchesType(typeName string) bool {
	if n.fhirType == "" || typeName == "" {
		return false
	}
	return strings.EqualFold(n.fhirType, typeName)
}
