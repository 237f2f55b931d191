package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/core/cookiesig"
	"github.com/dmitrymomot/sessionkit/core/session"
)

// resolveSession provisions a fresh session against the given store with a
// recorder capturing emitted cookies.
func resolveSession(t *testing.T, store session.Store[testData], opts ...session.Option[testData]) (*session.Session[testData], *httptest.ResponseRecorder) {
	t.Helper()

	m, err := session.NewManager(store, []string{testSecret}, opts...)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	sess, _, err := m.Resolve(w, r)
	require.NoError(t, err)
	return sess, w
}

func TestSession_SaveAndReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("save persists current data", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[testData](0, 0)
		sess, _ := resolveSession(t, store)

		// Nothing persisted until the first explicit save.
		_, err := store.Get(ctx, sess.ID())
		require.ErrorIs(t, err, session.ErrNotFound)

		sess.Data = testData{UserID: "u-1", Visits: 1}
		require.NoError(t, sess.Save(ctx))

		stored, err := store.Get(ctx, sess.ID())
		require.NoError(t, err)
		assert.Equal(t, sess.Data, stored)
	})

	t.Run("reload picks up externally updated data", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[testData](0, 0)
		sess, _ := resolveSession(t, store)

		require.NoError(t, store.Set(ctx, sess.ID(), testData{UserID: "u-2", Visits: 7}))

		require.NoError(t, sess.Reload(ctx))
		assert.Equal(t, testData{UserID: "u-2", Visits: 7}, sess.Data)
	})

	t.Run("reload degrades to fresh data when the entry is gone", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[testData](0, 0)
		sess, _ := resolveSession(t, store,
			session.WithDataGenerator[testData](func() (testData, error) {
				return testData{UserID: "fresh"}, nil
			}),
		)

		sess.Data = testData{UserID: "stale", Visits: 9}
		require.NoError(t, sess.Reload(ctx))
		assert.Equal(t, testData{UserID: "fresh"}, sess.Data)
		assert.NotEmpty(t, sess.ID(), "identifier survives reload")
	})

	t.Run("reload propagates storage failures", func(t *testing.T) {
		t.Parallel()

		backendErr := errors.New("connection reset")
		store := &mockStore{}
		store.On("Get", mock.Anything, mock.Anything).Return(testData{}, backendErr)

		sess, _ := resolveSession(t, store)
		assert.ErrorIs(t, sess.Reload(ctx), backendErr)
	})
}

func TestSession_Destroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	store := session.NewMemoryStore[testData](0, 0)
	sess, w := resolveSession(t, store)

	sess.Data = testData{UserID: "u-1"}
	require.NoError(t, sess.Save(ctx))

	require.NoError(t, sess.Destroy(ctx))

	// Store entry is gone.
	_, err := store.Get(ctx, sess.ID())
	assert.ErrorIs(t, err, session.ErrNotFound)

	// The re-emitted cookie tells the client to drop it now.
	header := w.Header().Get("Set-Cookie")
	assert.Contains(t, header, "Max-Age=0")
	assert.Equal(t, 0, sess.Cookie().MaxAge())

	// In-memory data is not forcibly reset.
	assert.Equal(t, "u-1", sess.Data.UserID)
}

func TestSession_Regenerate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("replaces identifier and migrates store entry", func(t *testing.T) {
		t.Parallel()

		ids := []string{"first-id", "second-id"}
		next := 0
		store := session.NewMemoryStore[testData](0, 0)
		sess, w := resolveSession(t, store,
			session.WithIDGenerator[testData](func(*http.Request) (string, error) {
				id := ids[next]
				next++
				return id, nil
			}),
		)
		require.Equal(t, "first-id", sess.ID())

		sess.Data = testData{UserID: "u-1"}
		require.NoError(t, sess.Save(ctx))

		require.NoError(t, sess.Regenerate(ctx))
		assert.Equal(t, "second-id", sess.ID())

		// Old entry destroyed, new entry saved.
		_, err := store.Get(ctx, "first-id")
		assert.ErrorIs(t, err, session.ErrNotFound)
		_, err = store.Get(ctx, "second-id")
		assert.NoError(t, err)

		// The cookie now carries the new identifier.
		value := cookieValue(t, w.Header().Get("Set-Cookie"))
		id, ok := cookiesig.New(nil).Verify(value, []string{testSecret})
		require.True(t, ok)
		assert.Equal(t, "second-id", id)
	})

	t.Run("save failure fails the whole regenerate", func(t *testing.T) {
		t.Parallel()

		backendErr := errors.New("write refused")
		store := &mockStore{}
		store.On("Destroy", mock.Anything, mock.Anything).Return(nil)
		store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(backendErr)

		sess, _ := resolveSession(t, store)
		assert.ErrorIs(t, sess.Regenerate(ctx), backendErr)
	})

	t.Run("destroy failure aborts before adopting a new identifier", func(t *testing.T) {
		t.Parallel()

		backendErr := errors.New("delete refused")
		store := &mockStore{}
		store.On("Destroy", mock.Anything, mock.Anything).Return(backendErr)

		sess, _ := resolveSession(t, store)
		oldID := sess.ID()

		assert.ErrorIs(t, sess.Regenerate(ctx), backendErr)
		assert.Equal(t, oldID, sess.ID())
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCookie_Attributes(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[testData](0, 0)
		sess, w := resolveSession(t, store)

		cookie := sess.Cookie()
		assert.Equal(t, session.DefaultCookieName, cookie.Name())
		assert.Equal(t, "/", cookie.Path())
		assert.Equal(t, 24*60*60, cookie.MaxAge())

		header := w.Header().Get("Set-Cookie")
		assert.True(t, strings.HasPrefix(header, session.DefaultCookieName+"="))
		assert.Contains(t, header, "Path=/")
		assert.Contains(t, header, "Max-Age=86400")
	})

	t.Run("configured attributes are emitted", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[testData](0, 0)
		sess, w := resolveSession(t, store,
			session.WithCookieName[testData]("app.sid"),
			session.WithCookieOptions[testData](session.Options{
				Path:     "/app",
				Domain:   "example.com",
				MaxAge:   3600,
				Secure:   true,
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			}),
		)

		assert.Equal(t, "app.sid", sess.Cookie().Name())

		header := w.Header().Get("Set-Cookie")
		assert.True(t, strings.HasPrefix(header, "app.sid="))
		assert.Contains(t, header, "Path=/app")
		assert.Contains(t, header, "Domain=example.com")
		assert.Contains(t, header, "Max-Age=3600")
		assert.Contains(t, header, "Secure")
		assert.Contains(t, header, "HttpOnly")
		assert.Contains(t, header, "SameSite=Strict")
	})

	t.Run("mutable attribute changes re-emit a single header", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[testData](0, 0)
		sess, w := resolveSession(t, store)

		before := w.Header().Get("Set-Cookie")

		expiry := time.Date(2027, time.January, 2, 15, 4, 5, 0, time.UTC)
		require.NoError(t, sess.Cookie().SetExpires(expiry))

		after := w.Header().Get("Set-Cookie")
		assert.NotEqual(t, before, after)
		assert.Contains(t, after, "Expires=")

		// Idempotent overwrite: still exactly one header for the name.
		require.Len(t, w.Header()["Set-Cookie"], 1)

		require.NoError(t, sess.Cookie().SetSameSite(http.SameSiteStrictMode))
		assert.Contains(t, w.Header().Get("Set-Cookie"), "SameSite=Strict")
		require.Len(t, w.Header()["Set-Cookie"], 1)
	})

	t.Run("immutable attributes fail and leave the header intact", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore[testData](0, 0)
		sess, w := resolveSession(t, store)

		before := w.Header().Get("Set-Cookie")
		cookie := sess.Cookie()

		assert.ErrorIs(t, cookie.SetName("other"), session.ErrImmutableAttribute)
		assert.ErrorIs(t, cookie.SetPath("/other"), session.ErrImmutableAttribute)
		assert.ErrorIs(t, cookie.SetDomain("other.example.com"), session.ErrImmutableAttribute)

		assert.Equal(t, before, w.Header().Get("Set-Cookie"))
		assert.Equal(t, session.DefaultCookieName, cookie.Name())
		assert.Equal(t, "/", cookie.Path())
		assert.Empty(t, cookie.Domain())
	})
}
