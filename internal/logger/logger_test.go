package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextAddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	prev := globalLogger
	globalLogger = slog.New(newHandler(&buf, Config{Level: LevelDebug, Format: "json"}))
	t.Cleanup(func() { globalLogger = prev })

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, 42)
	WithContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.EqualValues(t, 42, line["user_id"])
	assert.Equal(t, "hello", line["msg"])
}

func TestWithContextEmpty(t *testing.T) {
	var buf bytes.Buffer
	prev := globalLogger
	globalLogger = slog.New(newHandler(&buf, Config{Level: LevelInfo, Format: "json"}))
	t.Cleanup(func() { globalLogger = prev })

	WithContext(context.Background()).Info("plain")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "request_id")
	assert.NotContains(t, line, "user_id")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	prev := globalLogger
	globalLogger = slog.New(newHandler(&buf, Config{Level: LevelWarn, Format: "text"}))
	t.Cleanup(func() { globalLogger = prev })

	Info("dropped")
	assert.Zero(t, buf.Len())
	Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestInitWithConfigFileOutput(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() {
		globalLogger = prev
		slog.SetDefault(prev)
	})

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, InitWithConfig(Config{Level: LevelInfo, OutputPath: path, Format: "json"}))
	assert.FileExists(t, path)
}
