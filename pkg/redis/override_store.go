package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis commands the override store needs.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient satisfy it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SubjectFunc extracts the owner of an override (user, tenant, device)
// from a request context. An empty subject stores the override globally.
type SubjectFunc func(ctx context.Context) string

// OverrideStoreOption configures an OverrideStore.
type OverrideStoreOption func(*OverrideStore)

// WithKeyPrefix namespaces all keys written by the store.
func WithKeyPrefix(prefix string) OverrideStoreOption {
	return func(s *OverrideStore) { s.prefix = prefix }
}

// WithTTL expires overrides after ttl. Zero keeps them until removed.
func WithTTL(ttl time.Duration) OverrideStoreOption {
	return func(s *OverrideStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSubject scopes overrides to the subject returned by fn.
func WithSubject(fn SubjectFunc) OverrideStoreOption {
	return func(s *OverrideStore) { s.subject = fn }
}

// OverrideStore keeps feature overrides as plain string keys.
// Keys have the form <prefix>[<subject>:]<key>.
type OverrideStore struct {
	client  Client
	prefix  string
	ttl     time.Duration
	subject SubjectFunc
}

// NewOverrideStore creates a store backed by client.
func NewOverrideStore(client Client, opts ...OverrideStoreOption) *OverrideStore {
	s := &OverrideStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOverrideStoreFromConfig creates a store using the prefix and TTL from cfg.
func NewOverrideStoreFromConfig(client Client, cfg Config, opts ...OverrideStoreOption) *OverrideStore {
	base := []OverrideStoreOption{WithKeyPrefix(cfg.OverrideKeyPrefix), WithTTL(cfg.OverrideTTL)}
	return NewOverrideStore(client, append(base, opts...)...)
}

func (s *OverrideStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(ctx, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, errors.Join(ErrOverrideStore, err)
	}
	return v, true, nil
}

func (s *OverrideStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(ctx, key), value, s.ttl).Err(); err != nil {
		return errors.Join(ErrOverrideStore, err)
	}
	return nil
}

// Remove deletes the override. Deleting a missing key is not an error.
func (s *OverrideStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(ctx, key)).Err(); err != nil {
		return errors.Join(ErrOverrideStore, err)
	}
	return nil
}

func (s *OverrideStore) key(ctx context.Context, key string) string {
	if s.subject != nil {
		if subject := s.subject(ctx); subject != "" {
			return s.prefix + subject + ":" + key
		}
	}
	return s.prefix + key
}
