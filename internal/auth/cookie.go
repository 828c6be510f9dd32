package auth

import (
	"net/http"
	"time"
)

// CookieName is the name of the HttpOnly cookie holding the signed session token.
const CookieName = "session"

// SetSessionCookie stores token in the session cookie.
//
// COOKIE ATTRIBUTES:
//   - HttpOnly: JavaScript cannot read it, so an XSS bug cannot steal it
//   - SameSite=Lax: sent on top-level navigations, not on cross-site POSTs
//   - Secure: HTTPS only; off for local development over plain HTTP
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
