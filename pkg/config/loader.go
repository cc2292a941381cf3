package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type cacheEntry struct {
	once  sync.Once
	value any
	err   error
}

var (
	mu      sync.Mutex
	entries = map[reflect.Type]*cacheEntry{}

	defaultEnvOnce sync.Once
)

// LoadEnv loads variables from the given .env files into the process
// environment. Variables that are already set are left untouched.
// With no arguments it loads ./.env.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("failed to load env files: %v", err))
	}
}

// Load parses environment variables into v using `env` struct tags.
// Each configuration type is parsed once per process; later calls for the
// same type receive the cached copy. The default .env file is read on first
// use if it exists.
//
//	type Config struct {
//		Catalog string `env:"FEATURE_CATALOG" envDefault:"features.yaml"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvOnce.Do(func() {
		// a missing .env file is fine
		_ = godotenv.Load()
	})

	entry := entryFor(reflect.TypeFor[T]())
	entry.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			entry.err = errors.Join(ErrParsingConfig, err)
			return
		}
		entry.value = parsed
	})

	if entry.err != nil {
		return entry.err
	}

	cached, ok := entry.value.(T)
	if !ok {
		return ErrInvalidConfigType
	}
	*v = cached
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// ResetCache drops every cached configuration so the next Load re-reads the
// environment. Intended for tests.
func ResetCache() {
	mu.Lock()
	defer mu.Unlock()
	entries = map[reflect.Type]*cacheEntry{}
}

func entryFor(t reflect.Type) *cacheEntry {
	mu.Lock()
	defer mu.Unlock()

	e, ok := entries[t]
	if !ok {
		e = &cacheEntry{}
		entries[t] = e
	}
	return e
}
