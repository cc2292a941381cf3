package feature

import (
	"context"
	"errors"

	"github.com/dmitrymomot/flagkit/pkg/cookie"
)

// CookieStore keeps overrides in signed, session-scoped cookies.
// It needs the request bound to ctx by Middleware or WithHTTP; without one,
// reads report no override and writes fail with ErrNoHTTPContext.
type CookieStore struct {
	mgr  *cookie.Manager
	opts []cookie.Option
}

// NewCookieStore returns a store writing cookies through mgr.
// opts are applied to every cookie it sets.
func NewCookieStore(mgr *cookie.Manager, opts ...cookie.Option) *CookieStore {
	return &CookieStore{mgr: mgr, opts: opts}
}

func (s *CookieStore) Get(ctx context.Context, key string) (string, bool, error) {
	ex, ok := exchangeFromContext(ctx)
	if !ok {
		return "", false, nil
	}
	if v, removed, ok := ex.lookup(key); ok {
		return v, !removed, nil
	}

	v, err := s.mgr.GetSigned(ex.r, key)
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, cookie.ErrCookieNotFound),
		errors.Is(err, cookie.ErrInvalidSignature),
		errors.Is(err, cookie.ErrInvalidFormat):
		// tampered or foreign cookies count as no override
		return "", false, nil
	default:
		return "", false, err
	}
}

func (s *CookieStore) Set(ctx context.Context, key, value string) error {
	ex, ok := exchangeFromContext(ctx)
	if !ok {
		return ErrNoHTTPContext
	}
	if err := s.mgr.SetSigned(ex.w, key, value, s.opts...); err != nil {
		return err
	}
	ex.record(key, &value)
	return nil
}

func (s *CookieStore) Remove(ctx context.Context, key string) error {
	ex, ok := exchangeFromContext(ctx)
	if !ok {
		return ErrNoHTTPContext
	}
	s.mgr.Delete(ex.w, key)
	ex.record(key, nil)
	return nil
}
