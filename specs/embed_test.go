package specs

import "testing"

func TestPrimitiveTypeOfKnownPath(t *testing.T) {
	typ, ok := PrimitiveTypeOf("Patient", "birthDate")
	if !ok {
		t.Fatalf("expected Patient.birthDate to be known")
	}
	if typ != "date" {
		t.Fatalf("got %q", typ)
	}
}

func TestPrimitiveTypeOfUnknownPath(t *testing.T) {
	if _, ok := PrimitiveTypeOf("Patient", "notARealField"); ok {
		t.Fatalf("expected unknown path to report false")
	}
}

func TestPrimitiveTypeOfUnknownResource(t *testing.T) {
	if _, ok := PrimitiveTypeOf("Immunization", "status"); ok {
		t.Fatalf("expected unmapped resource to report false")
	}
}
