package httpserver_test

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/httpserver"
)

// startServer runs srv on an ephemeral port and returns its address once bound.
func startServer(t *testing.T, ctx context.Context, handler http.Handler, opts ...httpserver.Option) (*httpserver.Server, string, <-chan error) {
	t.Helper()
	started := make(chan struct{})
	opts = append([]httpserver.Option{
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(100 * time.Millisecond),
		httpserver.WithStartHook(func(*slog.Logger) { close(started) }),
	}, opts...)
	srv := httpserver.New(opts...)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, handler) }()

	select {
	case <-started:
	case err := <-done:
		require.FailNow(t, "server exited early", "%v", err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "server did not start")
	}
	return srv, srv.Addr(), done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err, "run")
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not finish")
	}
}

func TestRunAndCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, addr, done := startServer(t, ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	require.NotEmpty(t, addr)

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	waitDone(t, done)
}

func TestManualShutdownIsIdempotent(t *testing.T) {
	t.Parallel()
	var stopped atomic.Int32
	srv, _, done := startServer(t, context.Background(), nil,
		httpserver.WithStopHook(func(*slog.Logger) { stopped.Add(1) }))

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
	assert.Equal(t, int32(1), stopped.Load())
}

func TestStartError(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.WithAddr(":invalid"))

	err := srv.Run(context.Background(), http.NewServeMux())
	assert.ErrorIs(t, err, httpserver.ErrStart)
	assert.Empty(t, srv.Addr())
}

func TestAlreadyRunning(t *testing.T) {
	t.Parallel()
	srv, _, done := startServer(t, context.Background(), http.NewServeMux())

	err := srv.Run(context.Background(), http.NewServeMux())
	assert.ErrorIs(t, err, httpserver.ErrStart)

	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
}

func TestTimeoutsApplied(t *testing.T) {
	t.Parallel()
	hs := &http.Server{WriteTimeout: 9 * time.Second}
	srv, _, done := startServer(t, context.Background(), nil,
		httpserver.WithServer(hs),
		httpserver.WithReadTimeout(time.Second),
		httpserver.WithReadHeaderTimeout(500*time.Millisecond),
		httpserver.WithWriteTimeout(2*time.Second),
		httpserver.WithIdleTimeout(3*time.Second),
	)

	assert.Equal(t, time.Second, hs.ReadTimeout)
	assert.Equal(t, 500*time.Millisecond, hs.ReadHeaderTimeout)
	assert.Equal(t, 9*time.Second, hs.WriteTimeout, "preset value wins")
	assert.Equal(t, 3*time.Second, hs.IdleTimeout)
	assert.NotNil(t, hs.Handler)

	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("bad address", func(t *testing.T) {
		t.Parallel()
		srv := httpserver.NewFromConfig(httpserver.Config{Addr: ":invalid", ShutdownTimeout: time.Second})
		assert.ErrorIs(t, srv.Run(context.Background(), nil), httpserver.ErrStart)
	})

	t.Run("zero fields keep defaults", func(t *testing.T) {
		t.Parallel()
		hs := &http.Server{}
		srv, _, done := startServer(t, context.Background(), nil,
			httpserver.WithConfig(httpserver.Config{ReadHeaderTimeout: 4 * time.Second}),
			httpserver.WithServer(hs),
		)

		assert.Equal(t, 4*time.Second, hs.ReadHeaderTimeout)
		assert.Equal(t, 30*time.Second, hs.ReadTimeout)
		assert.Equal(t, 120*time.Second, hs.IdleTimeout)

		require.NoError(t, srv.Shutdown(context.Background()))
		waitDone(t, done)
	})
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()
	tests := map[string]func(){
		"addr":       func() { httpserver.WithAddr("") },
		"read":       func() { httpserver.WithReadTimeout(-time.Second) },
		"header":     func() { httpserver.WithReadHeaderTimeout(0) },
		"write":      func() { httpserver.WithWriteTimeout(-time.Second) },
		"idle":       func() { httpserver.WithIdleTimeout(-time.Second) },
		"shutdown":   func() { httpserver.WithShutdownTimeout(-time.Second) },
		"server":     func() { httpserver.WithServer(nil) },
		"start hook": func() { httpserver.WithStartHook(nil) },
		"stop hook":  func() { httpserver.WithStopHook(nil) },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, fn)
		})
	}
	assert.NotPanics(t, func() { httpserver.WithLogger(nil) })
}
