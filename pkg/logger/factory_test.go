package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golid-ai/dashkit/pkg/clientip"
	"github.com/golid-ai/dashkit/pkg/logger"
	"github.com/golid-ai/dashkit/pkg/requestid"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []logger.Option
		json bool
	}{
		{name: "json by default", json: true},
		{name: "text", opts: []logger.Option{logger.WithTextFormatter()}},
		{name: "last format wins", opts: []logger.Option{logger.WithTextFormatter(), logger.WithJSONFormatter()}, json: true},
		{name: "explicit text", opts: []logger.Option{logger.WithFormat(logger.FormatText)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf := &bytes.Buffer{}
			log := logger.New(append(tt.opts, logger.WithOutput(buf))...)
			log.Info("stream connected")

			if tt.json {
				entry := decode(t, buf)
				assert.Equal(t, "INFO", entry["level"])
				assert.Equal(t, "stream connected", entry["msg"])
				return
			}
			assert.Contains(t, buf.String(), `msg="stream connected"`)
		})
	}
}

func TestRequestScopedAttributes(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithAttr(slog.String("service", "dashboard")),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor(), nil),
	)

	ctx := requestid.WithContext(context.Background(), "req-1")
	ctx = clientip.WithContext(ctx, "192.0.2.1")
	log.InfoContext(ctx, "request")

	entry := decode(t, buf)
	assert.Equal(t, "dashboard", entry["service"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "192.0.2.1", entry["client_ip"])

	buf.Reset()
	log.Info("no context")
	entry = decode(t, buf)
	assert.NotContains(t, entry, "request_id")
	assert.NotContains(t, entry, "client_ip")
}

func TestWithContextValue(t *testing.T) {
	t.Parallel()

	type key struct{}
	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithContextValue("ticket", key{}), logger.WithContextValue("", key{}))

	log.InfoContext(context.WithValue(context.Background(), key{}, "t-1"), "stream opened")
	assert.Equal(t, "t-1", decode(t, buf)["ticket"])
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	log.With("k", "v").WithGroup("g").Error("dropped")
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("default")
	assert.Equal(t, "default", decode(t, buf)["msg"])
}

func TestWithFormatPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestContextAttributeDoesNotOverrideCallSite(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithContextExtractors(requestid.LoggerExtractor()))

	ctx := requestid.WithContext(context.Background(), "from-context")
	log.InfoContext(ctx, "proxied", logger.RequestID("from-backend"))

	assert.Equal(t, 1, strings.Count(buf.String(), `"request_id"`))
	assert.Equal(t, "from-backend", decode(t, buf)["request_id"])
}
