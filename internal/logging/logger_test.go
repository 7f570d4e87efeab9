package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Output: &buf})

	logger.Info().Msg("dropped")
	editor := Component(logger, "editor")
	editor.Warn().Str("path", "name").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "editor", entry["component"])
	assert.Equal(t, "name", entry["path"])
	assert.Equal(t, "warn", entry["level"])
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "json", Output: &buf})

	ctx := WithContext(context.Background(), logger)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")

	// A bare context yields a disabled logger rather than panicking.
	fallback := FromContext(context.Background())
	fallback.Info().Msg("ignored")
	assert.NotContains(t, buf.String(), "ignored")
}

func TestRedactMap(t *testing.T) {
	payload := map[string]any{
		"name": "central",
		"remoteStorage": map[string]any{
			"authentication": map[string]any{
				"username": "deploy",
				"password": "s3cr3t",
			},
		},
		"proxies": []any{map[string]any{"proxyToken": "abc"}},
		"secret":  nil,
	}

	got := RedactMap(payload)

	auth := got["remoteStorage"].(map[string]any)["authentication"].(map[string]any)
	assert.Equal(t, "deploy", auth["username"])
	assert.Equal(t, RedactedValue, auth["password"])
	assert.Equal(t, RedactedValue, got["proxies"].([]any)[0].(map[string]any)["proxyToken"])
	assert.Nil(t, got["secret"])
	assert.Equal(t, "s3cr3t", payload["remoteStorage"].(map[string]any)["authentication"].(map[string]any)["password"])
}
