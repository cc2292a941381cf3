package feature

import (
	"context"
	"maps"
	"net/url"
	"strings"
)

// DefaultQueryPrefix prefixes flag names in query parameters, e.g. ?ff_checkout-v2=on.
const DefaultQueryPrefix = "ff_"

// QueryOverrides holds one-shot overrides taken from a request.
// They apply to the current request only and are never persisted by resolution.
type QueryOverrides map[Name]string

// ParseQueryOverrides collects parameters named prefix+flag from values.
// The first value wins when a parameter repeats.
func ParseQueryOverrides(values url.Values, prefix string) QueryOverrides {
	if prefix == "" {
		prefix = DefaultQueryPrefix
	}
	var q QueryOverrides
	for key, vals := range values {
		name, ok := strings.CutPrefix(key, prefix)
		if !ok || name == "" || len(vals) == 0 {
			continue
		}
		if q == nil {
			q = make(QueryOverrides)
		}
		q[Name(name)] = vals[0]
	}
	return q
}

type queryContextKey struct{}

// WithQueryOverrides attaches q to ctx for Service.Resolve.
func WithQueryOverrides(ctx context.Context, q QueryOverrides) context.Context {
	return context.WithValue(ctx, queryContextKey{}, maps.Clone(q))
}

// QueryOverridesFromContext returns the overrides attached to ctx, or nil.
func QueryOverridesFromContext(ctx context.Context) QueryOverrides {
	if ctx == nil {
		return nil
	}
	q, _ := ctx.Value(queryContextKey{}).(QueryOverrides)
	return q
}
