// Package config loads typed configuration structs from environment variables.
//
// It combines github.com/joho/godotenv (optional .env files) with
// github.com/caarlos0/env/v11 (struct tag parsing). Every package in this
// module that needs settings exposes a Config struct with `env` and
// `envDefault` tags; the binary loads them through Load:
//
//	var envCfg environment.Config
//	var redisCfg redis.Config
//	config.MustLoad(&envCfg)
//	config.MustLoad(&redisCfg)
//
// Parsed values are cached per type, so repeated Load calls are cheap and
// always observe the same configuration. ResetCache clears the cache for tests.
//
// Errors are sentinel values (ErrParsingConfig, ErrLoadingEnvFile, ...) joined
// with the underlying cause; check them with errors.Is.
package config
