package fhirvalue

import (
	"encoding/json"
	"testing"
)

func TestFieldDirectMatch(t *testing.T) {
	n := New(map[string]any{"family": "Smith"}, "HumanName")
	v, ok := n.Field("family")
	if !ok {
		t.Fatalf("expected field to resolve")
	}
	if s, _ := v.AsString(); s != "Smith" {
		t.Fatalf("got %q", s)
	}
}

func TestFieldChoiceResolution(t *testing.T) {
	n := New(map[string]any{"onsetDateTime": "2020-01-01"}, "Condition")
	v, ok := n.Field("onset")
	if !ok {
		t.Fatalf("expected choice field to resolve")
	}
	if v.Type() != "dateTime" {
		t.Fatalf("got type %q", v.Type())
	}
	if !v.MatchesType("dateTime") {
		t.Fatalf("expected MatchesType to accept dateTime")
	}
}

func TestFieldChoiceResolutionComplexType(t *testing.T) {
	n := New(map[string]any{
		"onsetPeriod": map[string]any{"start": "2020-01-01"},
	}, "Condition")
	v, ok := n.Field("onset")
	if !ok {
		t.Fatalf("expected choice field to resolve")
	}
	if v.Type() != "Period" {
		t.Fatalf("got type %q", v.Type())
	}
}

func TestFieldAbsent(t *testing.T) {
	n := New(map[string]any{"family": "Smith"}, "HumanName")
	if _, ok := n.Field("given"); ok {
		t.Fatalf("expected absent field to report false")
	}
}

func TestFieldOnNonComplex(t *testing.T) {
	n := New("plain string", "string")
	if _, ok := n.Field("anything"); ok {
		t.Fatalf("expected Field on primitive to report false")
	}
}

func TestElements(t *testing.T) {
	n := New([]any{"a", "b", "c"}, "")
	elems := n.Elements()
	if len(elems) != 3 {
		t.Fatalf("got %d elements", len(elems))
	}
	if s, _ := elems[1].AsString(); s != "b" {
		t.Fatalf("got %q", s)
	}
}

func TestElementsOnScalar(t *testing.T) {
	n := New("a", "string")
	if elems := n.Elements(); elems != nil {
		t.Fatalf("expected nil elements for scalar, got %v", elems)
	}
}

func TestResourceType(t *testing.T) {
	n := New(map[string]any{"resourceType": "Patient", "id": "p1"}, "Patient")
	if n.ResourceType() != "Patient" {
		t.Fatalf("got %q", n.ResourceType())
	}
}

func TestToDisplayString(t *testing.T) {
	cases := []struct {
		raw  any
		want string
	}{
		{"hello", "hello"},
		{true, "true"},
		{false, "false"},
		{float64(42), "42"},
	}
	for _, c := range cases {
		n := New(c.raw, "")
		if got := n.ToDisplayString(); got != c.want {
			t.Fatalf("ToDisplayString(%v) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestAsDecimal(t *testing.T) {
	n := New(float64(3.14), "decimal")
	d, ok := n.AsDecimal()
	if !ok {
		t.Fatalf("expected decimal conversion to succeed")
	}
	if d.Text('f') != "3.14" {
		t.Fatalf("got %q", d.Text('f'))
	}
}

func TestAsDecimalPreservesJSONNumberPrecision(t *testing.T) {
	// A resource decoded with json.Decoder.UseNumber keeps a decimal's
	// original text; AsDecimal must round-trip it exactly rather than
	// going through float64, which would round 0.1 to a binary
	// approximation.
	n := New(json.Number("0.10000000000000001"), "decimal")
	d, ok := n.AsDecimal()
	if !ok {
		t.Fatalf("expected decimal conversion to succeed")
	}
	if d.Text('f') != "0.10000000000000001" {
		t.Fatalf("got %q, precision lost", d.Text('f'))
	}
}
