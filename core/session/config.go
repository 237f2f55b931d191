package session

import (
	"net/http"
	"strings"
)

// Config provides environment-based configuration for the session manager.
// Secrets is a comma-separated rotation list; the last entry signs new
// cookies while the full list verifies incoming ones.
type Config struct {
	Secrets           string        `env:"SESSION_SECRETS,required"`
	CookieName        string        `env:"SESSION_COOKIE_NAME" envDefault:"connect.sid"`
	CookiePath        string        `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	CookieDomain      string        `env:"SESSION_COOKIE_DOMAIN" envDefault:""`
	CookieMaxAge      int           `env:"SESSION_COOKIE_MAX_AGE" envDefault:"86400"`
	CookieSecure      bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly    bool          `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite    http.SameSite `env:"SESSION_COOKIE_SAME_SITE" envDefault:"2"` // SameSiteLaxMode
	SaveUninitialized bool          `env:"SESSION_SAVE_UNINITIALIZED" envDefault:"false"`
}

// parseSecrets splits the comma-separated rotation list.
// Empty entries are filtered out to prevent signing with an empty key.
func (c Config) parseSecrets() []string {
	if c.Secrets == "" {
		return nil
	}

	parts := strings.Split(c.Secrets, ",")
	secrets := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// NewManagerFromConfig creates a Manager from configuration. Explicit options
// are applied after the config-derived ones and take precedence.
func NewManagerFromConfig[Data any](store Store[Data], cfg Config, opts ...Option[Data]) (*Manager[Data], error) {
	configOpts := []Option[Data]{
		WithCookieName[Data](cfg.CookieName),
		WithCookieOptions[Data](Options{
			Path:     cfg.CookiePath,
			Domain:   cfg.CookieDomain,
			MaxAge:   cfg.CookieMaxAge,
			Secure:   cfg.CookieSecure,
			HttpOnly: cfg.CookieHTTPOnly,
			SameSite: cfg.CookieSameSite,
		}),
		WithSaveUninitialized[Data](cfg.SaveUninitialized),
	}

	configOpts = append(configOpts, opts...)

	return NewManager(store, cfg.parseSecrets(), configOpts...)
}
