package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/core/session"
	"github.com/dmitrymomot/sessionkit/middleware"
)

type profileData struct {
	Theme string `json:"theme"`
}

// failingStore simulates an unavailable backend.
type failingStore struct {
	err error
}

func (s *failingStore) Get(context.Context, string) (profileData, error) {
	return profileData{}, s.err
}
func (s *failingStore) Set(context.Context, string, profileData) error { return s.err }
func (s *failingStore) Destroy(context.Context, string) error { return s.err }
func (s *failingStore) Touch(context.Context, string, profileData) error { return s.err }

func newManager(t *testing.T, store session.Store[profileData]) *session.Manager[profileData] {
	t.Helper()

	m, err := session.NewManager(store, []string{"middleware-test-secret"})
	require.NoError(t, err)
	return m
}

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("attaches session to request context", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[profileData](0, 0)
		mw := middleware.Session(newManager(t, store))

		var seen *session.Session[profileData]
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext[profileData](r.Context())
			require.True(t, ok)
			seen = sess
			w.WriteHeader(http.StatusNoContent)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotNil(t, seen)
		assert.NotEmpty(t, seen.ID())
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("skip predicate bypasses resolution", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[profileData](0, 0)
		mw := middleware.SessionWithConfig(middleware.SessionConfig[profileData]{
			Manager: newManager(t, store),
			Skip: func(r *http.Request) bool {
				return r.URL.Path == "/healthz"
			},
		})

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := session.FromContext[profileData](r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("storage failure answers 500 by default", func(t *testing.T) {
		t.Parallel()

		backendErr := errors.New("backend down")
		mw := middleware.Session(newManager(t, &failingStore{err: backendErr}))

		handler := mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run on resolution failure")
		}))

		// A validly signed cookie forces a store lookup, which fails.
		m := newManager(t, session.NewMemoryStore[profileData](0, 0))
		seed := httptest.NewRecorder()
		_, _, err := m.Resolve(seed, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Cookie", seed.Header().Get("Set-Cookie"))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("custom error handler is used", func(t *testing.T) {
		t.Parallel()

		backendErr := errors.New("backend down")
		mw := middleware.SessionWithConfig(middleware.SessionConfig[profileData]{
			Manager: newManager(t, &failingStore{err: backendErr}),
			ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
				assert.ErrorIs(t, err, backendErr)
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		})

		handler := mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run on resolution failure")
		}))

		m := newManager(t, session.NewMemoryStore[profileData](0, 0))
		seed := httptest.NewRecorder()
		_, _, err := m.Resolve(seed, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Cookie", seed.Header().Get("Set-Cookie"))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("missing manager panics at wiring time", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			middleware.SessionWithConfig(middleware.SessionConfig[profileData]{})
		})
	})
}
