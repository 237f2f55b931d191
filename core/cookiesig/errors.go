package cookiesig

import "errors"

// Error variables cover misuse of the signing API. Malformed or forged cookie
// values are not errors: Verify reports them as a plain "no match" result
// because client-supplied input is routinely invalid.
var (
	// ErrEmptyValue indicates an attempt to sign an empty value.
	ErrEmptyValue = errors.New("cannot sign an empty value")

	// ErrEmptySecret indicates an attempt to derive a key from an empty secret.
	ErrEmptySecret = errors.New("cannot derive a key from an empty secret")
)
