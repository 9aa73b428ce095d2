package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	l.Info("projected %d rows", 3)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected valid JSON line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "projected 3 rows" {
		t.Fatalf("got message %v", line["message"])
	}
	if line["component"] != "sqlonfhir" {
		t.Fatalf("expected component field, got %+v", line)
	}
}

func TestLoggerSetLevelSuppressesBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)
	l.Debug("should not appear")
	l.Info("should not appear either")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below threshold, got %q", buf.String())
	}
	l.Warn("this appears")
	if buf.Len() == 0 {
		t.Fatalf("expected warn-level output")
	}
}

func TestLoggerErrorAttachesErrField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)
	l.Error(errBoom, "projection failed")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected valid JSON line: %v", err)
	}
	if line["error"] != "boom" {
		t.Fatalf("got error field %v", line["error"])
	}
}

func TestLoggerWithViewAddsField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo).WithView("patient_demographics")
	l.Info("done")
	if !strings.Contains(buf.String(), `"view":"patient_demographics"`) {
		t.Fatalf("expected view field in %q", buf.String())
	}
}

func TestDefaultSetDefaultRoundTrip(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	var buf bytes.Buffer
	SetDefault(New(&buf, LevelInfo))
	Info("hello %s", "world")
	if !strings.Contains(buf.String(), "hello world") {
		t.Fatalf("expected message via package-level Info, got %q", buf.String())
	}
}

func TestDisableSilencesDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	var buf bytes.Buffer
	SetDefault(New(&buf, LevelInfo))
	Disable()
	Info("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected disabled logger to suppress output, got %q", buf.String())
	}
}

type stubError struct{ msg string }

func (e *stubError) Error() string { return e.msg }

var errBoom = &stubError{msg: "boom"}
