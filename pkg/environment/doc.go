// Package environment models the deployment environment a process runs in.
//
// Environment is a closed enumeration (Development, Staging, Production).
// Parse accepts the canonical names and the short aliases "dev", "stage" and
// "prod", and rejects anything else with ErrUnknownEnvironment, so an invalid
// APP_ENV fails at startup instead of silently resolving flags against an
// environment nobody configured.
//
// The Provider interface is the single source of the current environment for
// feature resolution. Static and FromConfig cover the common cases:
//
//	var cfg environment.Config
//	config.MustLoad(&cfg)
//	provider, err := environment.FromConfig(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	env := provider.Environment()
//
// For HTTP servers, Middleware copies the provider's value into each request
// context where FromContext and the IsProduction / IsStaging / IsDevelopment
// predicates can read it. LoggerExtractor exposes the same value as an "env"
// slog attribute.
package environment
