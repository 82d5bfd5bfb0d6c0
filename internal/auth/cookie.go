package auth

import (
	"net/http"
	"time"
)

// SetCookieDirective renders the credential the transport layer should store
// for a freshly issued session.
func SetCookieDirective(name, token string, ttl time.Duration) string {
	c := &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		SameSite: http.SameSiteLaxMode,
	}
	return c.String()
}

// ClearCookieDirective renders an instruction to drop the stored credential.
func ClearCookieDirective(name string) string {
	c := &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}
	return c.String()
}
