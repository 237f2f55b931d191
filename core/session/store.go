package session

import "context"

// Store defines the persistence contract for session data.
// Implementations must handle concurrent access safely.
//
// Get returns ErrNotFound when no data exists for the identifier. Any other
// error is treated as a storage failure and propagated to the caller; the
// manager never interprets a failing backend as "no session exists", which
// would silently discard a user's data on a transient blip.
type Store[Data any] interface {
	Get(ctx context.Context, id string) (Data, error)
	Set(ctx context.Context, id string, data Data) error
	Destroy(ctx context.Context, id string) error
	// Touch refreshes the stored entry's expiry without semantic change to
	// its data. Backends without a native touch primitive may implement it
	// as a full rewrite.
	Touch(ctx context.Context, id string, data Data) error
}

// EnumerableStore is an optional capability for stores that can enumerate
// their sessions. Both methods operate only over this store's own keys,
// never globally over the backend.
type EnumerableStore[Data any] interface {
	Store[Data]
	All(ctx context.Context) ([]Data, error)
	Len(ctx context.Context) (int, error)
}

// ClearableStore is an optional capability for stores that support bulk
// removal of all their sessions.
type ClearableStore[Data any] interface {
	Store[Data]
	Clear(ctx context.Context) error
}
