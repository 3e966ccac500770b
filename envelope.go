package canopyauth

import (
	"net/http"
	"time"
)

// sessionCookie wraps a signed session token in the browser envelope used
// by every login response. The cookie is HttpOnly and SameSite=Strict;
// Secure is set unless the deployment explicitly allows plain HTTP.
func (e *Engine) sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	maxAge := int(time.Until(expiresAt).Round(time.Second).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}

	return &http.Cookie{
		Name:     e.config.Cookie.Name,
		Value:    token,
		Path:     e.config.Cookie.Path,
		Domain:   e.config.Cookie.Domain,
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   !e.config.Cookie.AllowInsecure,
		SameSite: cookieSameSite,
	}
}

// expiredSessionCookie returns the clearing counterpart: same name and
// attributes, empty value, Max-Age=0. Browsers treat it as an immediate
// delete regardless of whether a session cookie was present.
func (e *Engine) expiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     e.config.Cookie.Name,
		Value:    "",
		Path:     e.config.Cookie.Path,
		Domain:   e.config.Cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !e.config.Cookie.AllowInsecure,
		SameSite: cookieSameSite,
	}
}
