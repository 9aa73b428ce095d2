package sqlonfhir

import "testing"

const testView = `{
  "name": "patient_demographics",
  "resource": "Patient",
  "select": [{"column": [
    {"path": "id", "name": "id"},
    {"path": "gender", "name": "gender"}
  ]}]
}`

func TestEngineParseViewAndApply(t *testing.T) {
	e := New()
	view, err := e.ParseView([]byte(testView))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	rows, err := e.Apply(view, []byte(`{"resourceType":"Patient","id":"p1","gender":"female"}`))
	if err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if e.Metrics().ProjectionsTotal() != 1 {
		t.Fatalf("expected metrics to record the projection")
	}
}

func TestEngineApplyRecordsEmptyProjections(t *testing.T) {
	e := New()
	view, err := e.ParseView([]byte(testView))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	rows, err := e.Apply(view, []byte(`{"resourceType":"Observation","id":"o1"}`))
	if err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(rows))
	}
	if e.Metrics().ProjectionsEmpty() != 1 {
		t.Fatalf("expected metrics to record an empty projection")
	}
}

func TestEngineParseViewRejectsBadName(t *testing.T) {
	e := New()
	if _, err := e.ParseView([]byte(`{"name":"1bad","resource":"Patient","select":[{"column":[{"path":"id","name":"id"}]}]}`)); err == nil {
		t.Fatalf("expected error for invalid name under default strict engine options")
	}
}

func TestEngineWithStrictNamesFalseAllowsBadName(t *testing.T) {
	e := New(WithStrictNames(false))
	if _, err := e.ParseView([]byte(`{"name":"1bad","resource":"Patient","select":[{"column":[{"path":"id","name":"id"}]}]}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
