package session

import (
	"context"
	"errors"

	"github.com/dmitrymomot/sessionkit/pkg/async"
)

// GenerateFunc produces a fresh identifier and data payload pair for a new
// or regenerated session.
type GenerateFunc[Data any] func() (string, Data, error)

// Session is the live, in-request representation of one session: an
// identifier, an application-defined data payload, and the attached cookie
// descriptor. The manager creates one Session per request; the object has no
// identity beyond the request, while its store-side data persists across
// requests under the identifier.
//
// Data is freely mutable by the caller and written to the store only on Save
// (or immediately at creation when the manager is configured with
// SaveUninitialized). Saving is a last-writer-wins overwrite of the whole
// value: concurrent requests racing on one identifier get no read-modify-write
// atomicity from the core.
type Session[Data any] struct {
	// Data holds the application session state. The core moves it opaquely
	// between store and entity and assumes nothing beyond serializability.
	Data Data

	id       string
	cookie   *Cookie
	store    Store[Data]
	generate GenerateFunc[Data]
}

// ID returns the session identifier. It changes only through Regenerate.
func (s *Session[Data]) ID() string { return s.id }

// Cookie returns the session's cookie descriptor. Mutating its attributes
// re-emits the response's Set-Cookie header.
func (s *Session[Data]) Cookie() *Cookie { return s.cookie }

// Save writes the current data to the store under the current identifier.
// It does not touch the cookie.
func (s *Session[Data]) Save(ctx context.Context) error {
	return s.store.Set(ctx, s.id, s.Data)
}

// Reload re-fetches the data from the store. When the entry is gone (expired
// or evicted) the data is replaced with a freshly generated payload instead
// of failing: the caller already holds a live identifier, so reload degrades
// to a fresh session. Storage failures propagate.
func (s *Session[Data]) Reload(ctx context.Context) error {
	data, err := s.store.Get(ctx, s.id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_, fresh, genErr := s.generate()
			if genErr != nil {
				return genErr
			}
			s.Data = fresh
			return nil
		}
		return err
	}
	s.Data = data
	return nil
}

// Destroy expires the cookie on the client (Max-Age 0) and removes the entry
// from the store. The in-memory data is left as-is; the entity is logically
// dead afterwards.
func (s *Session[Data]) Destroy(ctx context.Context) error {
	if err := s.cookie.SetMaxAge(0); err != nil {
		return err
	}
	return s.store.Destroy(ctx, s.id)
}

// Regenerate replaces the session identity: it removes the store entry under
// the old identifier, adopts a freshly generated identifier and data pair,
// then re-signs the cookie and saves the new data concurrently. Both
// operations are awaited and either failure fails the whole call.
func (s *Session[Data]) Regenerate(ctx context.Context) error {
	if err := s.store.Destroy(ctx, s.id); err != nil {
		return err
	}

	id, data, err := s.generate()
	if err != nil {
		return err
	}
	s.id = id
	s.Data = data

	reemit := async.Exec(ctx, s.cookie, func(_ context.Context, c *Cookie) error {
		return c.reemit()
	})
	save := async.Exec(ctx, s, func(ctx context.Context, sess *Session[Data]) error {
		return sess.store.Set(ctx, sess.id, sess.Data)
	})

	return async.ExecAll(reemit, save)
}
