package obs

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func captureLogOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	Logger().SetOutput(&buf)
	defer Logger().SetOutput(os.Stdout)
	fn()
	return buf.String()
}

func TestLogRequestCarriesServiceTag(t *testing.T) {
	out := captureLogOutput(t, func() {
		LogRequest(map[string]any{"msg": "request_complete", "status": 200})
	})

	var entry map[string]any
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["service"] != "disposisi-api" {
		t.Fatalf("service = %v, want disposisi-api", entry["service"])
	}
	if entry["msg"] != "request_complete" {
		t.Fatalf("msg = %v, want request_complete", entry["msg"])
	}
}

func TestLogRequestKeepsCallerServiceTag(t *testing.T) {
	out := captureLogOutput(t, func() {
		LogRequest(map[string]any{"service": "disposisi-worker", "msg": "job_done"})
	})

	var entry map[string]any
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["service"] != "disposisi-worker" {
		t.Fatalf("service = %v, want disposisi-worker", entry["service"])
	}
}
