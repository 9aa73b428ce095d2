package fhirpath

import "testing"

func TestParseRejectsTrailingTokens(t *testing.T) {
	if _, err := Parse("name)"); err == nil {
		t.Fatalf("expected parse error for trailing token")
	}
}

func TestParseRejectsUnterminatedString(t *testing.T) {
	if _, err := Parse("name = 'oops"); err == nil {
		t.Fatalf("expected parse error for unterminated string")
	}
}

func TestParseNumberLiteralType(t *testing.T) {
	expr, err := Parse("42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := expr.(LiteralExpr)
	if !ok {
		t.Fatalf("expected LiteralExpr, got %T", expr)
	}
	if lit.Value.Type() != "integer" {
		t.Fatalf("got type %q", lit.Value.Type())
	}
}

func TestParseDecimalLiteralType(t *testing.T) {
	expr, err := Parse("4.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := expr.(LiteralExpr)
	if !ok {
		t.Fatalf("expected LiteralExpr, got %T", expr)
	}
	if lit.Value.Type() != "decimal" {
		t.Fatalf("got type %q", lit.Value.Type())
	}
}

func TestParseDateLiteralType(t *testing.T) {
	expr, err := Parse("@2020-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit := expr.(LiteralExpr)
	if lit.Value.Type() != "date" {
		t.Fatalf("got type %q", lit.Value.Type())
	}
}

func TestParseDateTimeLiteralType(t *testing.T) {
	expr, err := Parse("@2020-01-01T10:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit := expr.(LiteralExpr)
	if lit.Value.Type() != "dateTime" {
		t.Fatalf("got type %q", lit.Value.Type())
	}
}

func TestParseChainedCalls(t *testing.T) {
	expr, err := Parse("name.where(use = 'official').family.first()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := expr.(CallExpr); !ok {
		t.Fatalf("expected outer CallExpr, got %T", expr)
	}
}
