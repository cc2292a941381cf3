package environment

import "net/http"

// Middleware attaches the provider's environment to every request context
// so downstream handlers and log extractors can read it without a provider reference.
func Middleware(p Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithContext(r.Context(), p.Environment())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
