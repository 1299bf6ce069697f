package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

// newCapturedLogger returns a logger writing JSON records into buf.
func newCapturedLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Component: component,
		Handler:   slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &record); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}
	return record
}

func TestLoggerComponentField(t *testing.T) {
	var buf bytes.Buffer
	logger := newCapturedLogger(&buf, ComponentAnalysis)

	logger.Info("analysis started", FieldCycle, "calendar")

	record := lastRecord(t, &buf)
	if record[FieldComponent] != ComponentAnalysis {
		t.Errorf("component = %v, want %v", record[FieldComponent], ComponentAnalysis)
	}
	if record[FieldCycle] != "calendar" {
		t.Errorf("cycle = %v, want calendar", record[FieldCycle])
	}
}

func TestDefaultUsesProcessLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	Default(ComponentHTTP).Info("hello")

	record := lastRecord(t, &buf)
	if record[FieldComponent] != ComponentHTTP {
		t.Errorf("component = %v, want %v", record[FieldComponent], ComponentHTTP)
	}
}

func TestStructuredLogger_HTTPLifecycle(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newCapturedLogger(&buf, ComponentHTTP)).
		With(FieldRequestID, "req_abc123")

	r := httptest.NewRequest("POST", "/analyze?cycle=salary", nil)
	r.Header.Set("User-Agent", "test-agent")

	sl.LogHTTPStart(context.Background(), r, "10.0.0.1")
	start := lastRecord(t, &buf)
	if start[FieldRequestID] != "req_abc123" {
		t.Errorf("request_id = %v, want req_abc123", start[FieldRequestID])
	}
	if start[FieldMethod] != "POST" || start[FieldPath] != "/analyze" {
		t.Errorf("method/path = %v/%v", start[FieldMethod], start[FieldPath])
	}
	if start[FieldClientIP] != "10.0.0.1" {
		t.Errorf("client_ip = %v, want 10.0.0.1", start[FieldClientIP])
	}

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"ok is info", 200, "INFO"},
		{"client error is warn", 422, "WARN"},
		{"server error is error", 500, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			sl.LogHTTPEnd(context.Background(), r, tt.status, 12, "10.0.0.1")
			record := lastRecord(t, &buf)
			if record["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", record["level"], tt.wantLevel)
			}
			if int(record[FieldStatusCode].(float64)) != tt.status {
				t.Errorf("status_code = %v, want %d", record[FieldStatusCode], tt.status)
			}
		})
	}
}

func TestStructuredLogger_LogAnalysisCompleted(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newCapturedLogger(&buf, ComponentAnalysis))

	sl.LogAnalysisCompleted(context.Background(), "sess-9", "salary", 42, 3)

	record := lastRecord(t, &buf)
	if record[FieldSessionID] != "sess-9" {
		t.Errorf("session_id = %v, want sess-9", record[FieldSessionID])
	}
	if record[FieldCycle] != "salary" {
		t.Errorf("cycle = %v, want salary", record[FieldCycle])
	}
	if int(record[FieldNbTransactions].(float64)) != 42 {
		t.Errorf("nb_transactions = %v, want 42", record[FieldNbTransactions])
	}
	if int(record["nb_periods"].(float64)) != 3 {
		t.Errorf("nb_periods = %v, want 3", record["nb_periods"])
	}
	if record[FieldOperation] != OpAnalyze {
		t.Errorf("operation = %v, want %v", record[FieldOperation], OpAnalyze)
	}
}

func TestStructuredLogger_LogErrorAndWarn(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newCapturedLogger(&buf, ComponentAnalysis))

	sl.LogError(context.Background(), "archive failed", errors.New("disk full"),
		ComponentStorage, OpExport, LogFields{FieldSessionID: "sess-1"})

	record := lastRecord(t, &buf)
	if record["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", record["level"])
	}
	if record[FieldError] != "disk full" {
		t.Errorf("error = %v, want disk full", record[FieldError])
	}
	if record[FieldOperation] != OpExport {
		t.Errorf("operation = %v, want %v", record[FieldOperation], OpExport)
	}

	buf.Reset()
	sl.LogWarn(context.Background(), "amqp unavailable",
		ComponentAMQP, OpExport, LogFields{FieldAnalysisID: int64(7)})

	record = lastRecord(t, &buf)
	if record["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", record["level"])
	}
	if int(record[FieldAnalysisID].(float64)) != 7 {
		t.Errorf("analysis_id = %v, want 7", record[FieldAnalysisID])
	}
}

func TestLogFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithAnalysis("sess-2", "calendar", 10).
		WithOperation(OpAnalyze).
		WithError(nil)

	if _, ok := fields[FieldError]; ok {
		t.Error("nil error should not add an error field")
	}

	slice := fields.ToSlice()
	if len(slice) != 2*len(fields) {
		t.Errorf("ToSlice length = %d, want %d", len(slice), 2*len(fields))
	}
}
