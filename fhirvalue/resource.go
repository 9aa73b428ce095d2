package fhirvalue

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// resourceKeyNamespace anchors the deterministic UUIDs synthesized for
// resources with no id. Any fixed namespace works; what matters is that
// it never changes between runs, so the same resource content always
// synthesizes the same key (spec §8 determinism).
var resourceKeyNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("gofhir.sqlonfhir.resourceKey"))

// Resource is a FHIR resource: a root Node plus the identity behaviour
// getResourceKey()/getReferenceKey() need. It implements the "resource
// input" adapter the engine consumes (spec §6).
type Resource struct {
	Node
}

// NewResource decodes a FHIR resource from JSON bytes. Decoding goes
// through a json.Decoder with UseNumber so a decimal element's
// original text survives as json.Number instead of collapsing into a
// float64 before AsDecimal ever sees it (spec §6 decimal precision).
func NewResource(data []byte) (Resource, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Resource{}, fmt.Errorf("fhirvalue: decode resource: %w", err)
	}
	rt, _ := raw["resourceType"].(string)
	return Resource{Node: New(raw, rt)}, nil
}

// FromMap wraps an already-decoded resource map, e.g. one element of a
// FHIR Bundle already unmarshaled by the caller.
func FromMap(raw map[string]any) Resource {
	rt, _ := raw["resourceType"].(string)
	return Resource{Node: New(raw, rt)}
}

// GetResourceKey returns a stable scalar identity for this resource.
// It prefers the declared "id" element; if none is present it
// synthesizes a deterministic key from the resource's canonical JSON
// encoding, so repeated evaluation over the same content is
// reproducible even for id-less resources (e.g. contained resources).
func (r Resource) GetResourceKey() string {
	if id, ok := r.Field("id"); ok {
		if s, ok := id.AsString(); ok && s != "" {
			return r.ResourceType() + "/" + s
		}
	}
	return r.ResourceType() + "/" + syntheticResourceKey(r.Raw())
}

func syntheticResourceKey(raw any) string {
	canonical, err := json.Marshal(raw)
	if err != nil {
		canonical = []byte(fmt.Sprintf("%v", raw))
	}
	sum := sha1.Sum(canonical)
	id := uuid.NewSHA1(resourceKeyNamespace, sum[:])
	return id.String()
}

// ResourceKeyOf computes a getResourceKey() value for any node that
// looks like a resource (has a resourceType field), not just a root
// Resource. This lets getResourceKey() be evaluated element-wise over
// a sequence produced by navigation (e.g. Bundle.entry.resource),
// mirroring how the rest of the evaluator treats every value as a
// plain Node rather than distinguishing "the root resource" specially.
func ResourceKeyOf(n Node) (string, bool) {
	rt := n.ResourceType()
	if rt == "" {
		return "", false
	}
	r := Resource{Node: n}
	return r.GetResourceKey(), true
}

// GetReferenceKey extracts the referenced resource's logical id from a
// Reference-typed node, e.g. {"reference": "Patient/123"} yields "123".
// If refType is non-empty, the id is only returned when the
// reference's type matches; this backs FHIRPath's
// getReferenceKey(ResourceType) form. Absolute and urn:uuid:
// references are passed through unresolved: the engine does not
// perform cross-resource lookups (spec §6/§9).
func (n Node) GetReferenceKey(refType string) (string, bool) {
	refField, ok := n.Field("reference")
	if !ok {
		return "", false
	}
	ref, ok := refField.AsString()
	if !ok || ref == "" {
		return "", false
	}

	if strings.HasPrefix(ref, "urn:uuid:") || strings.Contains(ref, "://") {
		if refType != "" {
			return "", false
		}
		return ref, true
	}

	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 {
		if refType != "" {
			return "", false
		}
		return ref, true
	}
	resType, id := parts[0], parts[1]
	if refType != "" && refType != resType {
		return "", false
	}
	return id, true
}
