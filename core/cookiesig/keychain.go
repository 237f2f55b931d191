package cookiesig

import (
	"crypto/hmac"
	"crypto/sha256"
	"hash"
	"sync"
)

// Key is derived HMAC-SHA256 key material bound to a single secret string.
// Keys are handed out by a Keychain and must not be constructed directly.
type Key struct {
	secret []byte
}

// mac returns a fresh HMAC-SHA256 instance keyed with this key's material.
func (k *Key) mac() hash.Hash {
	return hmac.New(sha256.New, k.secret)
}

// Keychain memoizes derived signing and verification keys per secret string.
// The two roles keep separate caches because a backend may restrict key usage
// to one capability even when derivation is identical.
//
// The cache never evicts: the set of secrets is operator-configured and small,
// while repeated derivation would otherwise dominate request latency. Create
// one Keychain at service startup and share it; all methods are safe for
// concurrent use.
type Keychain struct {
	mu           sync.RWMutex
	signing      map[string]*Key
	verification map[string]*Key
}

// NewKeychain creates an empty key cache.
func NewKeychain() *Keychain {
	return &Keychain{
		signing:      make(map[string]*Key),
		verification: make(map[string]*Key),
	}
}

// SigningKey returns the cached signing key for the secret, deriving it on
// first use. Repeated calls with the identical secret return the identical
// key handle.
func (kc *Keychain) SigningKey(secret string) (*Key, error) {
	return kc.lookup(kc.signing, secret)
}

// VerificationKey returns the cached verification key for the secret,
// deriving it on first use. Repeated calls with the identical secret return
// the identical key handle.
func (kc *Keychain) VerificationKey(secret string) (*Key, error) {
	return kc.lookup(kc.verification, secret)
}

func (kc *Keychain) lookup(cache map[string]*Key, secret string) (*Key, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	kc.mu.RLock()
	key, ok := cache[secret]
	kc.mu.RUnlock()
	if ok {
		return key, nil
	}

	kc.mu.Lock()
	defer kc.mu.Unlock()

	// Re-check under the write lock: another goroutine may have derived the
	// key between lock transitions, and callers rely on handle identity.
	if key, ok := cache[secret]; ok {
		return key, nil
	}

	key = &Key{secret: []byte(secret)}
	cache[secret] = key
	return key, nil
}
