package feature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/flagkit/pkg/environment"
	"github.com/dmitrymomot/flagkit/pkg/logger"
)

// DefaultKeyPrefix prefixes flag names to form override storage keys.
const DefaultKeyPrefix = "ff_"

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithStore registers the store backing a storage medium.
// Registering a store for StorageNone has no effect.
func WithStore(storage Storage, store OverrideStore) ServiceOption {
	return func(s *Service) {
		if storage.AllowsOverride() && store != nil {
			s.stores[storage] = store
		}
	}
}

// WithLogger sets the logger used for degraded reads and override changes.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithKeyPrefix sets the prefix added to flag names to form storage keys.
func WithKeyPrefix(prefix string) ServiceOption {
	return func(s *Service) { s.keyPrefix = prefix }
}

// WithMemoryCapacity bounds the in-memory fallback for local overrides.
func WithMemoryCapacity(capacity int) ServiceOption {
	return func(s *Service) { s.memoryCapacity = capacity }
}

// Service wires the catalog, the environment provider and override stores
// to the resolution engine.
type Service struct {
	engine         *Engine
	catalog        *Catalog
	env            environment.Provider
	stores         map[Storage]OverrideStore
	fallback       OverrideStore
	keyPrefix      string
	memoryCapacity int
	logger         *slog.Logger
}

// NewService creates a service. Without a registered store, local overrides
// use a process-wide in-memory store. Cookie overrides are user-specific and
// have no such fallback: they need a CookieStore registered via WithStore.
func NewService(catalog *Catalog, env environment.Provider, opts ...ServiceOption) (*Service, error) {
	engine, err := NewEngine(catalog)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, errors.Join(ErrServiceNotInitialized, errors.New("environment provider cannot be nil"))
	}
	if current := env.Environment(); !current.IsValid() {
		return nil, errors.Join(ErrServiceNotInitialized,
			fmt.Errorf("%w: %q", environment.ErrUnknownEnvironment, current))
	}

	s := &Service{
		engine:         engine,
		catalog:        catalog,
		env:            env,
		stores:         make(map[Storage]OverrideStore, 2),
		keyPrefix:      DefaultKeyPrefix,
		memoryCapacity: DefaultMemoryCapacity,
		logger:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.fallback = NewMemoryStore(s.memoryCapacity)
	s.logger = s.logger.With(logger.Component("feature"))

	return s, nil
}

// Catalog returns the catalog the service resolves against.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Environment returns the current deployment environment.
func (s *Service) Environment() environment.Environment {
	return s.env.Environment()
}

// Resolve returns the view of name for the current environment, applying the
// query overrides in ctx and the persisted override from the flag's store.
// Store read failures are logged and treated as no override.
func (s *Service) Resolve(ctx context.Context, name Name) (FeatureFlag, error) {
	return s.engine.Resolve(name, s.env.Environment(), s.lookup(ctx))
}

// ResolveAll resolves every catalog flag in catalog order.
func (s *Service) ResolveAll(ctx context.Context) []FeatureFlag {
	env := s.env.Environment()
	lookup := s.lookup(ctx)

	flags := make([]FeatureFlag, 0, s.catalog.Len())
	for _, name := range s.catalog.names {
		flags = append(flags, ResolveDefinition(name, s.catalog.defs[name], env, lookup))
	}
	return flags
}

// IsEnabled reports whether name resolves to StateOn.
func (s *Service) IsEnabled(ctx context.Context, name Name) (bool, error) {
	flag, err := s.Resolve(ctx, name)
	if err != nil {
		return false, err
	}
	return flag.Enabled(), nil
}

// SetOverride persists value as the user override for name.
// value must be an on/off token; it is stored normalized to "on" or "off".
func (s *Service) SetOverride(ctx context.Context, name Name, value string) error {
	def, ok := s.catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	if !def.Storage.AllowsOverride() {
		return fmt.Errorf("%w: %q has storage %s", ErrUnsupportedStorage, name, def.Storage)
	}
	state, ok := parseOverride(value)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidState, value)
	}

	store, ok := s.storeFor(def.Storage)
	if !ok {
		return fmt.Errorf("%w: %q has storage %s", ErrNoStore, name, def.Storage)
	}
	if err := store.Set(ctx, s.key(name), state.String()); err != nil {
		return errors.Join(ErrStorage, err)
	}

	s.logger.DebugContext(ctx, "feature override set",
		logger.Flag(name), logger.State(state), logger.Storage(def.Storage))
	return nil
}

// ClearOverride removes any persisted override for name. It is idempotent
// and a no-op for flags without storage or without a registered store.
func (s *Service) ClearOverride(ctx context.Context, name Name) error {
	def, ok := s.catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	if !def.Storage.AllowsOverride() {
		return nil
	}

	store, ok := s.storeFor(def.Storage)
	if !ok {
		return nil
	}
	if err := store.Remove(ctx, s.key(name)); err != nil {
		return errors.Join(ErrStorage, err)
	}

	s.logger.DebugContext(ctx, "feature override cleared",
		logger.Flag(name), logger.Storage(def.Storage))
	return nil
}

func (s *Service) key(name Name) string {
	return s.keyPrefix + string(name)
}

// storeFor returns the store for storage. Only StorageLocal falls back to
// the in-memory store.
func (s *Service) storeFor(storage Storage) (OverrideStore, bool) {
	if store, ok := s.stores[storage]; ok {
		return store, true
	}
	if storage == StorageLocal {
		return s.fallback, true
	}
	return nil, false
}

func (s *Service) lookup(ctx context.Context) OverrideLookup {
	return &liveLookup{ctx: ctx, svc: s, query: QueryOverridesFromContext(ctx)}
}

// liveLookup reads persisted overrides lazily, so the store is only hit when
// no query override already won.
type liveLookup struct {
	ctx   context.Context
	svc   *Service
	query QueryOverrides
}

func (l *liveLookup) Query(name Name) (string, bool) {
	v, ok := l.query[name]
	return v, ok
}

func (l *liveLookup) Persisted(name Name) (string, bool) {
	def, ok := l.svc.catalog.Lookup(name)
	if !ok || !def.Storage.AllowsOverride() {
		return "", false
	}

	store, ok := l.svc.storeFor(def.Storage)
	if !ok {
		return "", false
	}
	v, ok, err := store.Get(l.ctx, l.svc.key(name))
	if err != nil {
		l.svc.logger.WarnContext(l.ctx, "failed to read feature override",
			logger.Flag(name), logger.Storage(def.Storage), logger.Error(err))
		return "", false
	}
	return v, ok
}
