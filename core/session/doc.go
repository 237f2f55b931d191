// Package session implements server-side session management for HTTP request
// handlers on top of a signed-cookie protocol and a pluggable key-value
// store.
//
// Per request, the Manager resolves an existing session from the signed
// cookie or provisions a new one, loads its data from the store, emits the
// signed Set-Cookie header, and attaches the session to the request context.
// The Data type parameter lets the application supply its own session data
// structure; the core moves it opaquely between store and entity.
//
// # Usage
//
//	type CartData struct {
//		Items []string `json:"items"`
//	}
//
//	store := session.NewMemoryStore[CartData](24*time.Hour, time.Minute)
//	manager, err := session.NewManager(store, []string{"old-secret", "current-secret"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	http.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
//		sess, r, err := manager.Resolve(w, r)
//		if err != nil {
//			http.Error(w, "storage unavailable", http.StatusInternalServerError)
//			return
//		}
//
//		sess.Data.Items = append(sess.Data.Items, "sku-42")
//		if err := sess.Save(r.Context()); err != nil {
//			http.Error(w, "storage unavailable", http.StatusInternalServerError)
//			return
//		}
//	})
//
// Or use the middleware package to resolve sessions for a whole router and
// read them back with FromContext.
//
// # Lifecycle
//
// A resolved session supports Save (persist current data), Reload (re-fetch,
// degrading to freshly generated data when the entry is gone), Destroy
// (expire the cookie and remove the entry), and Regenerate (replace the
// identifier, migrating the cookie and the store entry together). The cookie
// descriptor's mutable attributes re-emit the Set-Cookie header on every
// change; name, path, and domain are immutable after construction.
//
// # Key rotation
//
// The manager takes an ordered secret list. Incoming cookies verify against
// every listed secret while new cookies are signed only with the last one,
// so secrets roll over without invalidating live sessions.
//
// # Error classes
//
// Configuration errors (ErrMissingStore, ErrMissingSecret,
// ErrImmutableAttribute) surface immediately at the point of misuse and are
// never worth retrying. Malformed or forged cookies are not errors at all;
// they resolve to a new session. Storage failures propagate unmodified so
// callers can distinguish a broken backend from an absent session and pick
// their own retry or 5xx policy.
package session
