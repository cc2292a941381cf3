package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/environment"
	"github.com/dmitrymomot/flagkit/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf)).Info("hello")

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text formatter", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithTextFormatter()).Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "flagd"))).Info("msg")
		assert.Equal(t, "flagd", decode(t, buf)["svc"])
	})

	t.Run("context extractors", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, environment.LoggerExtractor()),
		)
		ctx := environment.WithContext(context.Background(), environment.Staging)
		log.InfoContext(ctx, "msg")
		assert.Equal(t, "staging", decode(t, buf)["env"])
	})

	t.Run("context value", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("tenant", key{}))
		log.InfoContext(context.WithValue(context.Background(), key{}, "acme"), "msg")
		assert.Equal(t, "acme", decode(t, buf)["tenant"])
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("development is text at debug", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment(environment.Development, "flagd"), logger.WithOutput(buf))
		log.Debug("msg")
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "service=flagd")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("production is json at info", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment(environment.Production, "flagd"), logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())
		log.Info("msg")
		entry := decode(t, buf)
		assert.Equal(t, "production", entry["env"])
		assert.Equal(t, "flagd", entry["service"])
	})
}

func TestWithConfig(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithEnvironment(environment.Production, "flagd"),
		logger.WithConfig(logger.Config{Level: "debug", Format: "TEXT"}),
		logger.WithOutput(buf),
	)
	log.Debug("msg")
	assert.Contains(t, buf.String(), "level=DEBUG")

	assert.Panics(t, func() { logger.New(logger.WithConfig(logger.Config{Level: "loud"})) })
	assert.Panics(t, func() { logger.New(logger.WithFormat(logger.Format("xml"))) })
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	type name string
	assert.Equal(t, slog.String("flag", "checkout-v2"), logger.Flag(name("checkout-v2")))
	assert.Equal(t, slog.String("state", "on"), logger.State("on"))
	assert.Equal(t, slog.String("storage", "cookie"), logger.Storage("cookie"))
	assert.Equal(t, slog.String("source", "query"), logger.Source("query"))
	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
	assert.Equal(t, "errors", logger.Errors(nil, errors.New("x")).Key)
	assert.Equal(t, slog.Attr{}, logger.RequestID(""))
	assert.Equal(t, "component", logger.Component("engine").Key)
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { logger.Discard().Error("nothing") })
}
