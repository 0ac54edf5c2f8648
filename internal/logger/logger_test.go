package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// decode parses the single JSON line written by a production logger.
func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected valid JSON output, got error: %v (%q)", err, buf.String())
	}
	return entry
}

func TestNewWithWriter_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Info("batch processed", map[string]interface{}{
		"total":   3,
		"success": 2,
	})

	entry := decode(t, &buf)
	if entry["message"] != "batch processed" {
		t.Errorf("Expected message field, got %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("Expected info level, got %v", entry["level"])
	}
	if entry["total"] != float64(3) {
		t.Errorf("Expected total field 3, got %v", entry["total"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("Expected timestamp field")
	}
}

func TestNewWithWriter_ProductionSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Debug("row parsed", nil)

	if buf.Len() != 0 {
		t.Errorf("Debug message should not appear in production logging, got %q", buf.String())
	}
}

func TestNewWithWriter_DevelopmentIsConsoleAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)

	log.Debug("row parsed", map[string]interface{}{"row": 4})

	output := buf.String()
	if !strings.Contains(output, "row parsed") {
		t.Error("Expected debug message in development output")
	}
	if strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Error("Expected console output, not JSON, in development")
	}
}

func TestNew(t *testing.T) {
	if New("production").GetZerolog() == nil {
		t.Error("Expected zerolog instance to be available")
	}
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Warn("row rejected", map[string]interface{}{"row": 5})

	entry := decode(t, &buf)
	if entry["level"] != "warn" {
		t.Errorf("Expected warn level, got %v", entry["level"])
	}
	if entry["row"] != float64(5) {
		t.Errorf("Expected row field, got %v", entry["row"])
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Error("child insert failed", errors.New("connection reset"), map[string]interface{}{
		"table": "project_units",
	})

	entry := decode(t, &buf)
	if entry["error"] != "connection reset" {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
	if entry["table"] != "project_units" {
		t.Errorf("Expected table field, got %v", entry["table"])
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf).With(map[string]interface{}{
		"file": "projects.xlsx",
	})

	log.Info("import started", nil)

	entry := decode(t, &buf)
	if entry["file"] != "projects.xlsx" {
		t.Errorf("Expected file field from context, got %v", entry["file"])
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf).WithRequestID("req-12345")

	log.Info("request received", nil)

	entry := decode(t, &buf)
	if entry["request_id"] != "req-12345" {
		t.Errorf("Expected request_id field, got %v", entry["request_id"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf).WithComponent("gateway")

	log.Info("bundle inserted", nil)

	entry := decode(t, &buf)
	if entry["component"] != "gateway" {
		t.Errorf("Expected component field, got %v", entry["component"])
	}
}

func TestNop(t *testing.T) {
	log := Nop()

	// Should not panic and should not write anywhere
	log.Info("discarded", map[string]interface{}{"key": "value"})
	log.Error("discarded", errors.New("boom"), nil)
	log.WithComponent("import").Warn("discarded", nil)
}
