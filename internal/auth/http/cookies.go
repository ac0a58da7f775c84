package http

import (
	"net/http"
	"time"
)

// CookieConfig controls how the refresh token cookie is written. The token
// only ever travels in an HttpOnly cookie so page scripts cannot read it.
type CookieConfig struct {
	Name   string
	Path   string
	Secure bool
	TTL    time.Duration
}

// DefaultCookieConfig matches the refresh token lifetime.
func DefaultCookieConfig(ttl time.Duration) CookieConfig {
	return CookieConfig{
		Name: "refresh",
		Path: "/",
		TTL:  ttl,
	}
}

func (c CookieConfig) write(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     c.Path,
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clear expires the cookie immediately.
func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     c.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// read returns the refresh token carried by the request, or "".
func (c CookieConfig) read(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
