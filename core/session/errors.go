package session

import "errors"

// Errors fall into three caller-distinguishable classes (see package docs):
// configuration errors (misuse at wiring time, never retry), input errors
// surfaced by the cookiesig package, and storage failures, which the manager
// propagates from the backend unmodified so callers can apply their own retry
// or 5xx policy.
var (
	// ErrNotFound is returned by stores when no data exists for an identifier.
	// It is the only storage result the manager interprets; every other store
	// error passes through untouched.
	ErrNotFound = errors.New("session not found in store")

	// ErrMissingStore indicates the manager was constructed without a store.
	ErrMissingStore = errors.New("session store is required")

	// ErrMissingSecret indicates the manager was constructed without any
	// non-empty signing secret.
	ErrMissingSecret = errors.New("at least one signing secret is required")

	// ErrImmutableAttribute is returned when mutating a cookie attribute that
	// is fixed after construction (name, path, domain). Changing any of them
	// would make the client treat the result as a different cookie instead of
	// updating the existing one.
	ErrImmutableAttribute = errors.New("cookie attribute is immutable after construction")
)
