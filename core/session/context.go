package session

import "context"

type sessionContextKey struct{}
type idContextKey struct{}
type storeContextKey struct{}

// WithSession attaches the session, its identifier, and its store to the
// context so downstream handlers and response emission can observe them.
func WithSession[Data any](ctx context.Context, sess *Session[Data]) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey{}, sess)
	ctx = context.WithValue(ctx, idContextKey{}, sess.ID())
	return context.WithValue(ctx, storeContextKey{}, sess.store)
}

// FromContext retrieves the session from the context.
func FromContext[Data any](ctx context.Context) (*Session[Data], bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*Session[Data])
	return sess, ok
}

// MustFromContext retrieves the session from the context or panics.
// Use only below middleware that guarantees session resolution.
func MustFromContext[Data any](ctx context.Context) *Session[Data] {
	sess, ok := FromContext[Data](ctx)
	if !ok {
		panic("session: not found in context")
	}
	return sess
}

// IDFromContext retrieves the resolved session identifier from the context.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idContextKey{}).(string)
	return id, ok
}

// StoreFromContext retrieves the session store from the context, e.g. for
// administrative operations like bulk clearing.
func StoreFromContext[Data any](ctx context.Context) (Store[Data], bool) {
	store, ok := ctx.Value(storeContextKey{}).(Store[Data])
	return store, ok
}
