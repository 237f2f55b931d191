package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultCookieName is used when no cookie name is configured. It matches the
// prior-art session cookie name so existing clients keep their sessions after
// migration.
const DefaultCookieName = "connect.sid"

// defaultMaxAge is applied when configuration leaves MaxAge unset (one day).
const defaultMaxAge = 24 * 60 * 60

// Options configures the cookie attributes applied to every session cookie.
// A zero MaxAge means "unset" and resolves to one day.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Expires  time.Time
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Cookie is the per-session cookie descriptor. Name, path, and domain are
// fixed at construction; their setters always fail with ErrImmutableAttribute
// because changing any of them would address a different cookie on the client.
// Every mutable-attribute setter re-emits the response's Set-Cookie header
// with the current signed session identifier, so in-handler changes become
// visible in the response without a dedicated pre-send hook.
type Cookie struct {
	name   string
	path   string
	domain string

	maxAge   int
	expires  time.Time
	secure   bool
	httpOnly bool
	sameSite http.SameSite

	emit func() error
}

func newCookie(name string, opts Options) *Cookie {
	if name == "" {
		name = DefaultCookieName
	}
	path := opts.Path
	if path == "" {
		path = "/"
	}
	maxAge := opts.MaxAge
	if maxAge == 0 {
		maxAge = defaultMaxAge
	}
	return &Cookie{
		name:     name,
		path:     path,
		domain:   opts.Domain,
		maxAge:   maxAge,
		expires:  opts.Expires,
		secure:   opts.Secure,
		httpOnly: opts.HttpOnly,
		sameSite: opts.SameSite,
	}
}

// Name returns the cookie name.
func (c *Cookie) Name() string { return c.name }

// Path returns the cookie path attribute.
func (c *Cookie) Path() string { return c.path }

// Domain returns the cookie domain attribute.
func (c *Cookie) Domain() string { return c.domain }

// MaxAge returns the cookie max-age in seconds. Zero means the cookie is
// marked for immediate expiry on the client.
func (c *Cookie) MaxAge() int { return c.maxAge }

// Expires returns the cookie expiry time, zero when unset.
func (c *Cookie) Expires() time.Time { return c.expires }

// Secure reports whether the cookie is restricted to HTTPS.
func (c *Cookie) Secure() bool { return c.secure }

// HttpOnly reports whether the cookie is hidden from client-side scripts.
func (c *Cookie) HttpOnly() bool { return c.httpOnly }

// SameSite returns the cookie same-site policy.
func (c *Cookie) SameSite() http.SameSite { return c.sameSite }

// SetName always fails: the name is immutable after construction.
func (c *Cookie) SetName(string) error {
	return fmt.Errorf("%w: name", ErrImmutableAttribute)
}

// SetPath always fails: the path is immutable after construction.
func (c *Cookie) SetPath(string) error {
	return fmt.Errorf("%w: path", ErrImmutableAttribute)
}

// SetDomain always fails: the domain is immutable after construction.
func (c *Cookie) SetDomain(string) error {
	return fmt.Errorf("%w: domain", ErrImmutableAttribute)
}

// SetMaxAge updates the max-age in seconds and re-emits the cookie header.
// Zero expires the cookie on the client immediately.
func (c *Cookie) SetMaxAge(seconds int) error {
	c.maxAge = seconds
	return c.reemit()
}

// SetExpires updates the expiry time and re-emits the cookie header.
func (c *Cookie) SetExpires(t time.Time) error {
	c.expires = t
	return c.reemit()
}

// SetSecure updates the secure flag and re-emits the cookie header.
func (c *Cookie) SetSecure(secure bool) error {
	c.secure = secure
	return c.reemit()
}

// SetHTTPOnly updates the http-only flag and re-emits the cookie header.
func (c *Cookie) SetHTTPOnly(httpOnly bool) error {
	c.httpOnly = httpOnly
	return c.reemit()
}

// SetSameSite updates the same-site policy and re-emits the cookie header.
func (c *Cookie) SetSameSite(sameSite http.SameSite) error {
	c.sameSite = sameSite
	return c.reemit()
}

func (c *Cookie) reemit() error {
	if c.emit == nil {
		return nil
	}
	return c.emit()
}

// httpCookie builds the outbound http.Cookie carrying the signed value.
func (c *Cookie) httpCookie(value string) *http.Cookie {
	maxAge := c.maxAge
	if maxAge <= 0 {
		// net/http omits the attribute for zero; a negative value emits
		// Max-Age=0, which tells the client to drop the cookie now.
		maxAge = -1
	}
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     c.path,
		Domain:   c.domain,
		MaxAge:   maxAge,
		Expires:  c.expires,
		Secure:   c.secure,
		HttpOnly: c.httpOnly,
		SameSite: c.sameSite,
	}
}

// writeCookie sets the outbound Set-Cookie header for the cookie's name,
// replacing any header previously emitted for the same name. Repeated
// attribute mutations within one request therefore produce a single header.
func writeCookie(w http.ResponseWriter, cookie *http.Cookie) {
	line := cookie.String()
	if line == "" {
		return
	}

	prefix := cookie.Name + "="
	existing := w.Header()["Set-Cookie"]
	for i, header := range existing {
		if strings.HasPrefix(header, prefix) {
			existing[i] = line
			return
		}
	}
	w.Header().Add("Set-Cookie", line)
}
