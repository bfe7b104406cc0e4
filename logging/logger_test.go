package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes JSON with context attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, LevelDebug, FormatJSON).WithRequest("req-1").WithUser(7)

		logger.Info("task created", "task_id", 3)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
		}
		if entry["msg"] != "task created" {
			t.Errorf("msg = %v", entry["msg"])
		}
		if entry["request_id"] != "req-1" {
			t.Errorf("request_id = %v", entry["request_id"])
		}
		if entry["user_id"] != float64(7) {
			t.Errorf("user_id = %v", entry["user_id"])
		}
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, LevelInfo, FormatText).Info("hello")
		if !strings.Contains(buf.String(), "msg=hello") {
			t.Errorf("unexpected text output %q", buf.String())
		}
	})
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelWarn, FormatJSON)

	logger.Debug("debug")
	logger.Info("info")
	if buf.Len() != 0 {
		t.Errorf("messages below WARN were logged: %q", buf.String())
	}

	logger.Warn("warn")
	logger.Error("error")
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("got %d lines, want 2", got)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "invalid", FormatJSON)
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	fallback := NopLogger()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Error("expected fallback for empty context")
	}

	l := NopLogger().WithRequest("abc")
	ctx := NewContext(context.Background(), l)
	if got := FromContext(ctx, fallback); got != l {
		t.Error("expected stored logger")
	}
}

func TestNewStdLogger(t *testing.T) {
	var buf bytes.Buffer
	std := NewStdLogger(NewLogger(&buf, LevelInfo, FormatJSON))
	std.Print("accept failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "ERROR" || entry["msg"] != "accept failed" {
		t.Errorf("unexpected entry %v", entry)
	}
}
