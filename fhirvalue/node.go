// Package fhirvalue implements the Resource Model: a tree of FHIR
// values decoded from JSON, tagged with FHIR primitive/complex type
// names so choice fields (onset[x]) and ofType() filters can be
// resolved by simple tag comparison instead of a full FHIR schema.
//
// A Node is the abstract "resource input" the engine consumes (spec
// §6): resourceType(), field(), elements(), typeOf(), primitive
// accessors, plus the two domain extensions getResourceKey() and
// getReferenceKey(Type?). This package supplies the reference adapter
// over encoding/json output; hosts embedding the engine elsewhere could
// supply their own as long as it satisfies the same navigation rules.
package fhirvalue

import (
	"encoding/json"

	"github.com/cockroachdb/apd/v3"
)

// Node is one value in the resource tree: a primitive, a complex
// object, or a repeating element. Navigation never panics on absent
// fields or wrong-shaped access; callers get a zero Node and ok=false.
type Node struct {
	// raw is the decoded JSON value: map[string]any, []any, string,
	// json.Number, bool, or nil. Resources are decoded with
	// json.Decoder.UseNumber so a decimal's original text survives into
	// apd.Decimal.SetString instead of first collapsing through
	// float64, per spec §6's decimal precision requirement.
	raw any

	// fhirType is the best-effort FHIR type name for this node
	// ("string", "dateTime", "CodeableConcept", "Patient", ...). It is
	// populated eagerly for resource roots and choice-resolved fields
	// (where the suffix names the type unambiguously) and left empty
	// otherwise; callers that need it for schema inference fall back to
	// the embedded primitive-type table (see specs package).
	fhirType string
}

// Nil is the empty/absent Node.
var Nil = Node{}

// New wraps a raw decoded-JSON value with an explicit FHIR type tag.
func New(raw any, fhirType string) Node {
	return Node{raw: raw, fhirType: fhirType}
}

// Wrap wraps a raw decoded-JSON value without a known type tag.
func Wrap(raw any) Node {
	return Node{raw: raw}
}

// IsAbsent reports whether the node represents "no value" (nil raw).
func (n Node) IsAbsent() bool {
	return n.raw == nil
}

// Raw returns the underlying decoded-JSON value.
func (n Node) Raw() any {
	return n.raw
}

// Type returns the FHIR type tag, if known. Empty string means unknown
// (the caller should consult schema/context, not assume "string").
func (n Node) Type() string {
	return n.fhirType
}

// WithType returns a copy of n tagged with the given FHIR type. Used
// when a caller (e.g. ofType, or the ViewDefinition column type) learns
// the concrete type of an otherwise-untyped node.
func (n Node) WithType(fhirType string) Node {
	n.fhirType = fhirType
	return n
}

// IsComplex reports whether the node is a JSON object.
func (n Node) IsComplex() bool {
	_, ok := n.raw.(map[string]any)
	return ok
}

// IsArray reports whether the node is a JSON array.
func (n Node) IsArray() bool {
	_, ok := n.raw.([]any)
	return ok
}

// object returns the underlying map, or nil if this isn't a complex
// node.
func (n Node) object() map[string]any {
	m, _ := n.raw.(map[string]any)
	return m
}

// Field looks up a named child on a complex node. It resolves choice
// fields transparently: Field("onset") on a node holding
// "onsetDateTime" returns that value tagged with type "dateTime". A
// direct key match always wins over choice resolution. Absent fields,
// or Field() called on a non-complex node, return (Nil, false) rather
// than erroring — FHIRPath navigation never throws on missing data.
func (n Node) Field(name string) (Node, bool) {
	obj := n.object()
	if obj == nil {
		return Nil, false
	}

	if v, ok := obj[name]; ok {
		return New(v, ""), true
	}

	if result, ok := resolveChoiceField(obj, name); ok {
		return result, true
	}

	return Nil, false
}

// Elements returns the sequence of child nodes for an array node. A
// non-array node (including Nil) yields an empty slice; callers that
// need "singleton as one-element sequence" semantics do that at the
// evaluator layer, not here.
func (n Node) Elements() []Node {
	arr, ok := n.raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Node, len(arr))
	for i, v := range arr {
		out[i] = New(v, "")
	}
	return out
}

// ResourceType returns the value of the "resourceType" field on a
// complex node, or "" if absent or not complex.
func (n Node) ResourceType() string {
	obj := n.object()
	if obj == nil {
		return ""
	}
	rt, _ := obj["resourceType"].(string)
	return rt
}

// AsString returns the node as a string primitive.
func (n Node) AsString() (string, bool) {
	s, ok := n.raw.(string)
	return s, ok
}

// AsBool returns the node as a boolean primitive.
func (n Node) AsBool() (bool, bool) {
	b, ok := n.raw.(bool)
	return b, ok
}

// AsFloat64 returns the node as a JSON number. Prefer AsDecimal for
// precision-sensitive comparisons: a resource-borne decimal is decoded
// as json.Number to preserve its original text, and converting through
// float64 here reintroduces the rounding AsDecimal exists to avoid.
func (n Node) AsFloat64() (float64, bool) {
	switch v := n.raw.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// AsDecimal returns the node as an arbitrary-precision decimal,
// covering both FHIR decimal and integer primitives. Resource numbers
// decode as json.Number (see raw's doc comment) and are parsed via
// SetString so their original text, not a float64 approximation, feeds
// apd. Non-numeric nodes return ok=false.
func (n Node) AsDecimal() (apd.Decimal, bool) {
	switch v := n.raw.(type) {
	case json.Number:
		var d apd.Decimal
		if _, _, err := d.SetString(v.String()); err != nil {
			return apd.Decimal{}, false
		}
		return d, true
	case float64:
		var d apd.Decimal
		if _, err := d.SetFloat64(v); err != nil {
			return apd.Decimal{}, false
		}
		return d, true
	case string:
		var d apd.Decimal
		if _, _, err := d.SetString(v); err != nil {
			return apd.Decimal{}, false
		}
		return d, true
	default:
		return apd.Decimal{}, false
	}
}

// ToDisplayString renders any primitive node as text, used by
// toString() and join(). Complex/array nodes render as "".
func (n Node) ToDisplayString() string {
	switch v := n.raw.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case json.Number:
		return v.String()
	case float64:
		d, _ := n.AsDecimal()
		return d.Text('f')
	default:
		return ""
	}
}
