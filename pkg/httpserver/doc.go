// Package httpserver runs an http.Server with graceful shutdown, configurable
// timeouts and JSON health endpoints.
//
// Run binds the listener, invokes start hooks and serves until the context is
// canceled or the process receives SIGINT/SIGTERM:
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler back /healthz and /readyz probes:
//
//	r.Get("/readyz", httpserver.ReadinessHandler(log, 2*time.Second,
//		httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//	))
//
// Configuration is read from HTTP_* environment variables via Config.
package httpserver
