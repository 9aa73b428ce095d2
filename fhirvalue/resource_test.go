package fhirvalue

import "testing"

func TestGetResourceKeyWithID(t *testing.T) {
	r, err := NewResource([]byte(`{"resourceType":"Patient","id":"p1"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.GetResourceKey(); got != "Patient/p1" {
		t.Fatalf("got %q", got)
	}
}

func TestGetResourceKeyDeterministicWithoutID(t *testing.T) {
	body := []byte(`{"resourceType":"Patient","name":[{"family":"Smith"}]}`)
	r1, err := NewResource(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := NewResource(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k1, k2 := r1.GetResourceKey(), r2.GetResourceKey()
	if k1 != k2 {
		t.Fatalf("expected deterministic synthetic key, got %q vs %q", k1, k2)
	}
	if k1 == "Patient/" {
		t.Fatalf("expected non-empty synthetic suffix")
	}
}

func TestGetReferenceKeyRelative(t *testing.T) {
	n := New(map[string]any{"reference": "Patient/123"}, "Reference")
	key, ok := n.GetReferenceKey("")
	if !ok || key != "123" {
		t.Fatalf("got %q, %v", key, ok)
	}
}

func TestGetReferenceKeyTypeFilterMatch(t *testing.T) {
	n := New(map[string]any{"reference": "Patient/123"}, "Reference")
	key, ok := n.GetReferenceKey("Patient")
	if !ok || key != "123" {
		t.Fatalf("got %q, %v", key, ok)
	}
}

func TestGetReferenceKeyTypeFilterMismatch(t *testing.T) {
	n := New(map[string]any{"reference": "Patient/123"}, "Reference")
	if _, ok := n.GetReferenceKey("Practitioner"); ok {
		t.Fatalf("expected type mismatch to report false")
	}
}

func TestGetReferenceKeyAbsent(t *testing.T) {
	n := New(map[string]any{}, "Reference")
	if _, ok := n.GetReferenceKey(""); ok {
		t.Fatalf("expected absent reference to report false")
	}
}

func TestGetReferenceKeyUUID(t *testing.T) {
	n := New(map[string]any{"reference": "urn:uuid:abc-123"}, "Reference")
	key, ok := n.GetReferenceKey("")
	if !ok || key != "urn:uuid:abc-123" {
		t.Fatalf("got %q, %v", key, ok)
	}
}
