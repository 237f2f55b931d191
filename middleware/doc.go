// Package middleware provides net/http middleware wrapping the session
// manager, so routers resolve a session once per request and handlers read
// it from the request context.
//
//	manager, _ := session.NewManager(store, secrets)
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/", handleIndex)
//
//	srv := &http.Server{
//		Handler: middleware.Session(manager)(mux),
//	}
//
// In handlers:
//
//	sess, ok := session.FromContext[MyData](r.Context())
package middleware
