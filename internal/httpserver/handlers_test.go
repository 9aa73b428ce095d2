package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofhir/sqlonfhir"
)

const testView = `{
  "name": "patient_demographics",
  "resource": "Patient",
  "select": [{"column": [
    {"path": "id", "name": "id"},
    {"path": "gender", "name": "gender"}
  ]}]
}`

func newTestServer() *Server {
	return NewServer(sqlonfhir.New(), 1<<20)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestHandleCreateViewAndApply(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/views", strings.NewReader(testView))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}

	var created map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("expected a view id, got %+v", created)
	}

	body := `{"resourceType":"Patient","id":"p1","gender":"male"}`
	applyReq := httptest.NewRequest(http.MethodPost, "/views/"+id+"/apply", strings.NewReader(body))
	applyRec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(applyRec, applyReq)
	if applyRec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", applyRec.Code, applyRec.Body.String())
	}

	var rows []map[string]any
	if err := json.Unmarshal(applyRec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != "p1" {
		t.Fatalf("got rows %+v", rows)
	}
}

func TestHandleApplyUnknownViewReturns404(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/views/does-not-exist/apply", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestHandleCreateViewRejectsBadJSON(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/views", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestHandleApplyInline(t *testing.T) {
	srv := newTestServer()
	reqBody, err := json.Marshal(map[string]json.RawMessage{
		"view":     json.RawMessage(testView),
		"resource": json.RawMessage(`{"resourceType":"Patient","id":"p2","gender":"female"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/apply", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}

	var rows []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0]["gender"] != "female" {
		t.Fatalf("got rows %+v", rows)
	}
}

func TestHandleDeleteView(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/views", strings.NewReader(testView))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	var created map[string]any
	json.Unmarshal(rec.Body.Bytes(), &created)
	id := created["id"].(string)

	delReq := httptest.NewRequest(http.MethodDelete, "/views/"+id, nil)
	delRec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(delRec, delReq)
	if delRec.Code != http.StatusNoContent {
		t.Fatalf("got status %d", delRec.Code)
	}

	schemaReq := httptest.NewRequest(http.MethodGet, "/views/"+id+"/schema", nil)
	schemaRec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(schemaRec, schemaReq)
	if schemaRec.Code != http.StatusNotFound {
		t.Fatalf("expected deleted view to 404, got %d", schemaRec.Code)
	}
}
