package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestNewTagsService(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "dms-api", "info")
	logger.Debug("hidden")
	logger.Info("ecm_call", "endpoint", "GetDocument")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected a single JSON record, got %q: %v", buf.String(), err)
	}
	if rec["service"] != "dms-api" || rec["msg"] != "ecm_call" || rec["endpoint"] != "GetDocument" {
		t.Fatalf("unexpected record %v", rec)
	}
}
