package viewdef

import (
	"encoding/json"
	"testing"
)

func decodeConstant(t *testing.T, src string) Constant {
	t.Helper()
	var c Constant
	if err := json.Unmarshal([]byte(src), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestConstantStringLiteral(t *testing.T) {
	c := decodeConstant(t, `{"name":"code","valueString":"1234-5"}`)
	if c.Literal != "'1234-5'" {
		t.Fatalf("got %q", c.Literal)
	}
}

func TestConstantDateLiteral(t *testing.T) {
	c := decodeConstant(t, `{"name":"since","valueDate":"2020-01-01"}`)
	if c.Literal != "@2020-01-01" {
		t.Fatalf("got %q", c.Literal)
	}
}

func TestConstantDecimalLiteral(t *testing.T) {
	c := decodeConstant(t, `{"name":"threshold","valueDecimal":5.5}`)
	if c.Literal != "5.5" {
		t.Fatalf("got %q", c.Literal)
	}
}

func TestConstantIntegerLiteral(t *testing.T) {
	c := decodeConstant(t, `{"name":"threshold","valueInteger":5}`)
	if c.Literal != "5" {
		t.Fatalf("got %q", c.Literal)
	}
}

func TestConstantBooleanLiteral(t *testing.T) {
	c := decodeConstant(t, `{"name":"flag","valueBoolean":true}`)
	if c.Literal != "true" {
		t.Fatalf("got %q", c.Literal)
	}
}

func TestConstantMissingValueErrors(t *testing.T) {
	var c Constant
	err := json.Unmarshal([]byte(`{"name":"c"}`), &c)
	if err == nil {
		t.Fatalf("expected error for missing value member")
	}
}

func TestConstantStringEscapesQuotes(t *testing.T) {
	c := decodeConstant(t, `{"name":"c","valueString":"it's"}`)
	if c.Literal != `'it\'s'` {
		t.Fatalf("got %q", c.Literal)
	}
}

func TestSubstituteConstantsMultipleTokens(t *testing.T) {
	table := map[string]Constant{
		"a": {Name: "a", Literal: "'x'"},
		"b": {Name: "b", Literal: "5"},
	}
	got, err := substituteConstants("field.where($this = %a and count() > %b)", table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "field.where($this = 'x' and count() > 5)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSubstituteConstantsUndefinedToken(t *testing.T) {
	if _, err := substituteConstants("field = %missing", map[string]Constant{}); err == nil {
		t.Fatalf("expected error for undefined constant")
	}
}
