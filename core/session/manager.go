package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sessionkit/core/cookiesig"
)

// IDGenerator produces a new session identifier for a request. The request is
// provided so applications can derive identifiers from request attributes;
// the default generator ignores it.
type IDGenerator func(r *http.Request) (string, error)

// DataGenerator produces the initial data payload for a new session.
type DataGenerator[Data any] func() (Data, error)

// Manager resolves or provisions one session per inbound request, wiring the
// signed-cookie protocol to a pluggable store. Construct once at startup and
// share across requests.
type Manager[Data any] struct {
	store             Store[Data]
	secrets           []string
	signer            *cookiesig.Signer
	name              string
	cookieDefaults    Options
	genID             IDGenerator
	genData           DataGenerator[Data]
	saveUninitialized bool
}

// Option configures a Manager.
type Option[Data any] func(*Manager[Data])

// WithCookieName sets the session cookie name (default "connect.sid").
func WithCookieName[Data any](name string) Option[Data] {
	return func(m *Manager[Data]) {
		if name != "" {
			m.name = name
		}
	}
}

// WithCookieOptions sets the default attributes for emitted session cookies.
func WithCookieOptions[Data any](opts Options) Option[Data] {
	return func(m *Manager[Data]) {
		m.cookieDefaults = opts
	}
}

// WithIDGenerator replaces the default random-token identifier generator.
func WithIDGenerator[Data any](gen IDGenerator) Option[Data] {
	return func(m *Manager[Data]) {
		if gen != nil {
			m.genID = gen
		}
	}
}

// WithDataGenerator replaces the default zero-value data generator.
func WithDataGenerator[Data any](gen DataGenerator[Data]) Option[Data] {
	return func(m *Manager[Data]) {
		if gen != nil {
			m.genData = gen
		}
	}
}

// WithSaveUninitialized controls whether a freshly created session is written
// to the store immediately rather than on the first explicit Save (default
// false).
func WithSaveUninitialized[Data any](save bool) Option[Data] {
	return func(m *Manager[Data]) {
		m.saveUninitialized = save
	}
}

// WithKeychain shares a derived-key cache between managers and other signers.
// By default each manager owns a private keychain.
func WithKeychain[Data any](keys *cookiesig.Keychain) Option[Data] {
	return func(m *Manager[Data]) {
		if keys != nil {
			m.signer = cookiesig.New(keys)
		}
	}
}

// NewManager creates a session manager. The secrets form the key rotation
// list: the last entry signs new cookies, the full list verifies incoming
// ones. It fails fast when the store is missing or no non-empty secret is
// supplied.
func NewManager[Data any](store Store[Data], secrets []string, opts ...Option[Data]) (*Manager[Data], error) {
	if store == nil {
		return nil, ErrMissingStore
	}

	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrMissingSecret
	}

	m := &Manager[Data]{
		store:   store,
		secrets: secrets,
		signer:  cookiesig.New(cookiesig.NewKeychain()),
		name:    DefaultCookieName,
		genID:   generateID,
		genData: func() (Data, error) { return *new(Data), nil },
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// CookieName returns the configured session cookie name.
func (m *Manager[Data]) CookieName() string { return m.name }

// signingSecret is the newest secret, used for all newly emitted cookies.
func (m *Manager[Data]) signingSecret() string {
	return m.secrets[len(m.secrets)-1]
}

// Resolve resolves an existing session from the request's signed cookie or
// provisions a new one, emits the signed Set-Cookie header, and attaches the
// session, its identifier, and the store to the request context. It returns
// the session together with the derived request carrying the enriched
// context.
//
// Calling Resolve again on a request that already carries a session is a
// no-op returning the attached session, so stacked middleware cannot
// double-provision.
//
// Storage failures during lookup, touch, or the initial save propagate
// unmodified; they are never treated as "session not found".
func (m *Manager[Data]) Resolve(w http.ResponseWriter, r *http.Request) (*Session[Data], *http.Request, error) {
	if sess, ok := FromContext[Data](r.Context()); ok {
		return sess, r, nil
	}

	ctx := r.Context()

	id, hasID := m.lookup(r)

	var (
		data  Data
		found bool
	)
	if hasID {
		stored, err := m.store.Get(ctx, id)
		switch {
		case err == nil:
			data = stored
			found = true
		case errors.Is(err, ErrNotFound):
			// Expired, unknown, or first use of a caller-supplied
			// identifier: keep the identifier, pair it with fresh data.
		default:
			return nil, r, err
		}
	}

	if !hasID {
		newID, err := m.genID(r)
		if err != nil {
			return nil, r, err
		}
		id = newID
	}
	if !found {
		fresh, err := m.genData()
		if err != nil {
			return nil, r, err
		}
		data = fresh
	}

	sess := &Session[Data]{
		Data:  data,
		id:    id,
		store: m.store,
		generate: func() (string, Data, error) {
			newID, err := m.genID(r)
			if err != nil {
				var zero Data
				return "", zero, err
			}
			newData, err := m.genData()
			if err != nil {
				var zero Data
				return "", zero, err
			}
			return newID, newData, nil
		},
	}

	cookie := newCookie(m.name, m.cookieDefaults)
	cookie.emit = func() error {
		signed, err := m.signer.Sign(sess.id, m.signingSecret())
		if err != nil {
			return err
		}
		writeCookie(w, cookie.httpCookie(signed))
		return nil
	}
	sess.cookie = cookie

	if found {
		if err := m.store.Touch(ctx, id, data); err != nil {
			return nil, r, err
		}
	} else if m.saveUninitialized {
		if err := sess.Save(ctx); err != nil {
			return nil, r, err
		}
	}

	// Emit only after the storage step so a failed response never carries a
	// freshly signed cookie.
	if err := cookie.emit(); err != nil {
		return nil, r, err
	}

	return sess, r.WithContext(WithSession(ctx, sess)), nil
}

// lookup reads the named cookie and verifies it against the rotation list,
// returning the recovered identifier.
func (m *Manager[Data]) lookup(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.name)
	if err != nil {
		return "", false
	}
	return m.signer.Verify(cookie.Value, m.secrets)
}

// generateID is the default identifier generator: 32 cryptographically
// random bytes in unpadded base64url, unique per active session.
func generateID(_ *http.Request) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// UUIDGenerator returns an identifier generator producing UUIDv4 strings,
// for deployments that prefer addressable identifiers over opaque tokens.
func UUIDGenerator() IDGenerator {
	return func(_ *http.Request) (string, error) {
		return uuid.NewString(), nil
	}
}
