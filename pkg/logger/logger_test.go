package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestFromContextAddsIDs(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	InitTo(&buf, "debug", "json")

	ctx := WithSession(context.Background(), "sess-1")
	ctx = WithAttempt(ctx, "att-9")
	ctx = WithRequestID(ctx, "req-3")
	Info(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, `"session_id":"sess-1"`)
	assert.Contains(t, out, `"attempt":"att-9"`)
	assert.Contains(t, out, `"request_id":"req-3"`)
	assert.Contains(t, out, `"msg":"hello"`)
}

func TestLevelFiltersDebug(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	InitTo(&buf, "info", "text")
	Debug(context.Background(), "hidden")
	Warn(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
