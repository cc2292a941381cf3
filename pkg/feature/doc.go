// Package feature resolves feature flags from a static catalog, the current
// deployment environment and optional user overrides.
//
// # Architecture
//
// The package is built around three pieces:
//
// 1. Catalog - the immutable, ordered set of flag definitions, loaded from YAML or JSON
// 2. Engine - pure resolution of a definition against an environment and overrides
// 3. Service - wires the catalog and an environment.Provider to OverrideStore backends
//
// A definition's status is either one value for every environment or a
// per-environment mapping. Status strings map to states through a single
// table:
//
//	on, enabled, true, 1      -> on
//	off, disabled, false, 0   -> off
//	switchable or missing     -> the flag's defaultState (unset when absent)
//
// Matching is case-insensitive. Overrides use the same table but only the
// on/off tokens count; any other value is ignored.
//
// # Precedence
//
// Resolution picks the first of:
//
//  1. a query override, when the flag supports query overrides
//  2. a persisted override, when the flag's storage is cookie or local
//  3. the catalog state for the current environment
//
// FeatureFlag.PreferredState always holds step 3, so callers can tell when a
// user moved a flag away from its default. FeatureFlag.Source names the step
// that won.
//
// # Usage
//
//	f, _ := os.Open("features.yaml")
//	catalog, err := feature.LoadCatalog(f)
//	if err != nil {
//		return err
//	}
//
//	svc, err := feature.NewService(catalog, environment.Static(environment.Production),
//		feature.WithStore(feature.StorageCookie, feature.NewCookieStore(cookies)),
//		feature.WithStore(feature.StorageLocal, redisStore),
//		feature.WithLogger(log),
//	)
//
//	router.Use(feature.Middleware())
//	router.Mount("/features", feature.NewHandler(svc, log))
//
//	if on, _ := svc.IsEnabled(r.Context(), "checkout-v2"); on {
//		// new checkout
//	}
//
// Middleware reads ?ff_<flag>=on query overrides and binds the request for
// CookieStore. Local overrides without a registered store fall back to a
// process-local MemoryStore. Cookie overrides have no fallback, so writing
// one without a CookieStore fails with ErrNoStore.
//
// # Error Handling
//
// ErrUnknownFlag, ErrUnsupportedStorage, ErrNoStore and ErrInvalidState are
// returned to the caller and indicate configuration bugs. Store write failures wrap
// ErrStorage. Store read failures are logged and treated as no override, so
// Resolve never fails for a known flag.
package feature
