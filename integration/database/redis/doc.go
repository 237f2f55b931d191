// Package redis provides Redis client initialization with retry logic and a
// Redis-backed implementation of the session store contract.
//
// # Connecting
//
//	cfg := redis.Config{
//		ConnectionURL:  "redis://localhost:6379/0",
//		RetryAttempts:  3,
//		RetryInterval:  5 * time.Second,
//		ConnectTimeout: 30 * time.Second,
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// Connect validates the URL (redis:// or rediss://), retries transient
// failures, and verifies connectivity with a ping before returning. The
// Healthcheck helper wraps the same ping for readiness probes.
//
// # Session store
//
// Store adapts the client to session.Store, namespacing keys under a prefix
// ("sess" by default, joined by ':') and serializing data as JSON with
// Redis-native TTLs:
//
//	store := redis.NewStore[CartData](client,
//		redis.WithPrefix[CartData]("myapp"),
//		redis.WithTTL[CartData](12*time.Hour),
//	)
//
//	manager, err := session.NewManager(store, secrets)
//
// The TTL policy is either fixed (WithTTL) or computed per entry from its
// data (WithTTLFunc); a non-positive effective TTL deletes the entry rather
// than writing an ambiguous zero-expiry key. Enumeration and clearing use
// SCAN and operate strictly within the prefix.
package redis
