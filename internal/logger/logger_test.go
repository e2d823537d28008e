package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestInitWriter_Levels(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(Config{Level: "warn", Format: "text"}, &buf)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	slog.Info("hidden")
	slog.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestFromContext_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(Config{Level: "debug", Format: "json"}, &buf)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), 9)
	FromContext(ctx).Debug("generated", "archive_id", 3)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if line["request_id"] != "req-1" || line["user_id"] != float64(9) || line["archive_id"] != float64(3) {
		t.Errorf("unexpected attributes %v", line)
	}
}
