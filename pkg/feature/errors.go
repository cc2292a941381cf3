package feature

import "errors"

var (
	// ErrUnknownFlag indicates a flag name that is not in the catalog.
	// It is a programming or configuration error, never a "disabled" result.
	ErrUnknownFlag = errors.New("unknown feature flag")

	// ErrUnsupportedStorage indicates an override write for a flag whose storage is none.
	ErrUnsupportedStorage = errors.New("feature flag does not support overrides")

	// ErrNoStore indicates an override write for a medium with no registered
	// store, such as cookie storage without a CookieStore.
	ErrNoStore = errors.New("no override store registered for feature storage")

	// ErrInvalidState indicates a value that is not a recognized feature state.
	ErrInvalidState = errors.New("invalid feature state")

	// ErrInvalidDefinition indicates a catalog entry that failed validation.
	ErrInvalidDefinition = errors.New("invalid feature flag definition")

	// ErrStorage wraps failures reported by an override store.
	ErrStorage = errors.New("feature override storage failed")

	// ErrServiceNotInitialized indicates missing dependencies at construction time.
	ErrServiceNotInitialized = errors.New("feature service not initialized")

	// ErrNoHTTPContext indicates a cookie override write outside an HTTP request
	// wrapped by Middleware.
	ErrNoHTTPContext = errors.New("no http request bound to context")
)
