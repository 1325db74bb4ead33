package session

import (
	"net/http"
	"time"

	"github.com/zulqarnainhdr514/storage-management/internal/cookie"
)

// Config holds the session cookie policy.
type Config struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"session"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"720h"` // 30 days
	Secure     bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
}

// Carrier persists the directory session secret in an encrypted HTTP cookie.
// The cookie policy is fixed: path /, httpOnly, SameSite=Lax, Secure when
// configured for production. Exactly one session is tracked at a time;
// writing a new secret overwrites the previous one.
type Carrier struct {
	cookieMgr *cookie.Manager
	cfg       Config
}

func NewCarrier(cookieMgr *cookie.Manager, cfg Config) *Carrier {
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	return &Carrier{cookieMgr: cookieMgr, cfg: cfg}
}

// Read extracts the session secret from the request cookie.
func (c *Carrier) Read(r *http.Request) (string, error) {
	secret, err := c.cookieMgr.GetEncrypted(r, c.cfg.CookieName)
	if err != nil {
		return "", ErrNoSession
	}
	return secret, nil
}

// Write stores the session secret in the response cookie.
func (c *Carrier) Write(w http.ResponseWriter, secret string) error {
	opts := []cookie.Option{
		cookie.WithMaxAge(int(c.cfg.TTL.Seconds())),
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	}
	if c.cfg.Secure {
		opts = append(opts, cookie.WithSecure(true))
	}

	return c.cookieMgr.SetEncrypted(w, c.cfg.CookieName, secret, opts...)
}

// Clear removes the session cookie.
func (c *Carrier) Clear(w http.ResponseWriter) {
	c.cookieMgr.Delete(w, c.cfg.CookieName)
}
