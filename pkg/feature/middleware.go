package feature

import "net/http"

type middlewareConfig struct {
	queryPrefix string
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithQueryPrefix sets the query parameter prefix for one-shot overrides.
func WithQueryPrefix(prefix string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if prefix != "" {
			c.queryPrefix = prefix
		}
	}
}

// Middleware extracts query overrides (?ff_<flag>=on) into the request
// context and binds the request/response pair for CookieStore.
func Middleware(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{queryPrefix: DefaultQueryPrefix}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithHTTP(r.Context(), w, r)
			if q := ParseQueryOverrides(r.URL.Query(), cfg.queryPrefix); len(q) > 0 {
				ctx = WithQueryOverrides(ctx, q)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
