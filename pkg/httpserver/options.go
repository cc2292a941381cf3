package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Server. Options given invalid values panic, since they
// are fixed at startup.
type Option func(*config)

// WithConfig applies the non-zero fields of cfg.
func WithConfig(cfg Config) Option {
	return func(c *config) {
		if cfg.Addr != "" {
			c.addr = cfg.Addr
		}
		for _, d := range []struct {
			src time.Duration
			dst *time.Duration
		}{
			{cfg.ReadTimeout, &c.readTimeout},
			{cfg.ReadHeaderTimeout, &c.readHeaderTimeout},
			{cfg.WriteTimeout, &c.writeTimeout},
			{cfg.IdleTimeout, &c.idleTimeout},
			{cfg.ShutdownTimeout, &c.shutdownTimeout},
		} {
			if d.src > 0 {
				*d.dst = d.src
			}
		}
	}
}

// WithAddr sets the listen address. ":0" picks a free port; see Server.Addr.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: listen address cannot be empty")
	}
	return func(c *config) { c.addr = addr }
}

func WithReadTimeout(d time.Duration) Option {
	return positive("read timeout", d, func(c *config) *time.Duration { return &c.readTimeout })
}

// WithReadHeaderTimeout bounds reading request headers, which the flag API
// reads before any override body.
func WithReadHeaderTimeout(d time.Duration) Option {
	return positive("read header timeout", d, func(c *config) *time.Duration { return &c.readHeaderTimeout })
}

func WithWriteTimeout(d time.Duration) Option {
	return positive("write timeout", d, func(c *config) *time.Duration { return &c.writeTimeout })
}

func WithIdleTimeout(d time.Duration) Option {
	return positive("idle timeout", d, func(c *config) *time.Duration { return &c.idleTimeout })
}

// WithShutdownTimeout bounds graceful shutdown, including in-flight override writes.
func WithShutdownTimeout(d time.Duration) Option {
	return positive("shutdown timeout", d, func(c *config) *time.Duration { return &c.shutdownTimeout })
}

func positive(name string, d time.Duration, field func(*config) *time.Duration) Option {
	if d <= 0 {
		panic(fmt.Sprintf("httpserver: %s must be positive, got %s", name, d))
	}
	return func(c *config) { *field(c) = d }
}

// WithServer uses srv as the base server. Its Handler is replaced; timeouts
// already set on srv win over the configured ones.
func WithServer(srv *http.Server) Option {
	if srv == nil {
		panic("httpserver: base server cannot be nil")
	}
	return func(c *config) { c.server = srv }
}

// WithLogger sets the server logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStartHook runs h once the listener is bound.
func WithStartHook(h func(*slog.Logger)) Option {
	mustHook("start", h)
	return func(c *config) { c.startHooks = append(c.startHooks, h) }
}

// WithStopHook runs h after shutdown completes.
func WithStopHook(h func(*slog.Logger)) Option {
	mustHook("stop", h)
	return func(c *config) { c.stopHooks = append(c.stopHooks, h) }
}

func mustHook(kind string, h func(*slog.Logger)) {
	if h == nil {
		panic("httpserver: nil " + kind + " hook")
	}
}
