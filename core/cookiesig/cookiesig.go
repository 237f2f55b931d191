package cookiesig

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

const (
	// prefix marks a value as signed. The wire format is s:<value>.<signature>.
	prefix = "s:"

	// signatureLength is the length of an HMAC-SHA256 digest encoded as
	// standard-alphabet base64 with padding stripped (32 bytes -> 43 chars).
	// Verification anchors on this fixed length from the END of the string
	// because the signed value may itself contain '.' or ':' characters.
	signatureLength = 43

	// minSignedLength is prefix + one value byte + separator + signature.
	minSignedLength = len(prefix) + 1 + 1 + signatureLength
)

// encoding is standard-alphabet base64 without padding, matching the widely
// deployed cookie-signature wire format so previously issued cookies remain
// verifiable after migration.
var encoding = base64.RawStdEncoding

// Signer signs and verifies cookie values using keys from a Keychain.
// The zero value is not usable; construct with New.
type Signer struct {
	keys *Keychain
}

// New creates a Signer backed by the given key cache.
// A nil keychain gets a fresh private one.
func New(keys *Keychain) *Signer {
	if keys == nil {
		keys = NewKeychain()
	}
	return &Signer{keys: keys}
}

// Sign returns value in the signed form s:<value>.<signature>, where the
// signature is the unpadded base64 HMAC-SHA256 digest of value under the
// key derived from secret.
func (s *Signer) Sign(value, secret string) (string, error) {
	if value == "" {
		return "", ErrEmptyValue
	}

	key, err := s.keys.SigningKey(secret)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(prefix) + len(value) + 1 + signatureLength)
	b.WriteString(prefix)
	b.WriteString(value)
	b.WriteByte('.')
	b.WriteString(s.digest(key, value))
	return b.String(), nil
}

// Verify parses a signed cookie value and checks its signature against every
// secret in order, supporting key rotation: old cookies verify against a
// retained old secret while new ones are signed only with the newest.
// It returns the embedded value and true on the first match, or "" and false
// when the input is malformed or no secret matches. Malformed input is an
// expected outcome, not an error.
func (s *Signer) Verify(signed string, secrets []string) (string, bool) {
	if len(signed) < minSignedLength || !strings.HasPrefix(signed, prefix) {
		return "", false
	}

	sep := len(signed) - signatureLength - 1
	if signed[sep] != '.' {
		return "", false
	}

	value := signed[len(prefix):sep]
	signature := signed[sep+1:]

	for _, secret := range secrets {
		key, err := s.keys.VerificationKey(secret)
		if err != nil {
			continue
		}
		expected := s.digest(key, value)
		if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) == 1 {
			return value, true
		}
	}

	return "", false
}

func (s *Signer) digest(key *Key, value string) string {
	mac := key.mac()
	mac.Write([]byte(value))
	sum := make([]byte, 0, sha256.Size)
	return encoding.EncodeToString(mac.Sum(sum))
}
