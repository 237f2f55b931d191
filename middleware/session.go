package middleware

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sessionkit/core/session"
)

// SessionConfig configures the session middleware.
type SessionConfig[Data any] struct {
	// Manager resolves or provisions the session per request.
	Manager *session.Manager[Data]
	// Skip defines a function to skip middleware execution for specific
	// requests, e.g. static assets.
	Skip func(r *http.Request) bool
	// Logger for structured logging (default: slog with io.Discard).
	Logger *slog.Logger
	// ErrorHandler defines the response for resolution failures, which are
	// storage-backend errors by construction. Default: plain 500.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// Session creates middleware that resolves the session for every request and
// attaches it to the request context. Handlers read it back with
// session.FromContext.
//
// Resolution failures are storage failures (malformed cookies never fail; they
// resolve to a new session), so the default behavior is to log and answer 500
// rather than continue without a session and risk masking data loss.
func Session[Data any](manager *session.Manager[Data]) func(http.Handler) http.Handler {
	return SessionWithConfig(SessionConfig[Data]{Manager: manager})
}

// SessionWithConfig creates session middleware with custom configuration.
// It panics when the manager is missing, since the middleware is inert
// without one and the mistake belongs to startup wiring.
func SessionWithConfig[Data any](cfg SessionConfig[Data]) func(http.Handler) http.Handler {
	if cfg.Manager == nil {
		panic("middleware: session manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			_, r, err := cfg.Manager.Resolve(w, r)
			if err != nil {
				cfg.Logger.ErrorContext(r.Context(), "session resolution failed",
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
				cfg.ErrorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
