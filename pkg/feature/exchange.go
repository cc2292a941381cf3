package feature

import (
	"context"
	"net/http"
	"sync"
)

// exchange is the request/response pair a CookieStore reads and writes.
// Writes are mirrored in pending so reads later in the same request see them.
type exchange struct {
	w       http.ResponseWriter
	r       *http.Request
	mu      sync.Mutex
	pending map[string]*string
}

func (e *exchange) lookup(key string) (value string, removed, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.pending[key]
	if !ok {
		return "", false, false
	}
	if v == nil {
		return "", true, true
	}
	return *v, false, true
}

func (e *exchange) record(key string, value *string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		e.pending = make(map[string]*string)
	}
	e.pending[key] = value
}

type exchangeContextKey struct{}

// WithHTTP binds w and r to ctx so cookie-backed overrides can be read and
// written. Middleware does this automatically.
func WithHTTP(ctx context.Context, w http.ResponseWriter, r *http.Request) context.Context {
	return context.WithValue(ctx, exchangeContextKey{}, &exchange{w: w, r: r})
}

func exchangeFromContext(ctx context.Context) (*exchange, bool) {
	if ctx == nil {
		return nil, false
	}
	ex, ok := ctx.Value(exchangeContextKey{}).(*exchange)
	return ex, ok
}
