// Package cookiesig implements tamper-evident cookie value signing with
// HMAC-SHA256 and key rotation support.
//
// Signed values use the wire format s:<value>.<signature>, byte-compatible
// with a widely used prior-art session-signing format, so cookies issued by
// an existing deployment keep verifying after migration. The signature is the
// unpadded standard-base64 HMAC-SHA256 digest of the value; parsing anchors
// on its fixed 43-character length from the end of the string, which keeps
// values containing '.' or ':' unambiguous.
//
// # Usage
//
//	keys := cookiesig.NewKeychain()
//	signer := cookiesig.New(keys)
//
//	signed, err := signer.Sign(sessionID, "newest-secret")
//	if err != nil {
//		// empty value or secret
//	}
//
//	// Verify against the full rotation list, oldest first.
//	id, ok := signer.Verify(signed, []string{"old-secret", "newest-secret"})
//	if !ok {
//		// absent, malformed, or forged cookie: treat as no session
//	}
//
// # Key caching
//
// Derived key material is memoized per secret string inside the Keychain,
// with separate caches for the signing and verification roles. The cache is
// unbounded and never evicts; it holds at most one entry per configured
// secret. Share one Keychain per process and pass it to every Signer that
// should reuse the derived keys.
package cookiesig
