package session

import (
	"net/http"
	"net/url"
	"time"
)

const (
	// CookieName holds the opaque session token.
	CookieName = "auth_token"
	// DefaultTTLDays is how long a session cookie lives.
	DefaultTTLDays = 7
)

// SetAuthToken writes the session cookie.
func SetAuthToken(w http.ResponseWriter, token string, days int) {
	if days <= 0 {
		days = DefaultTTLDays
	}
	maxAge := days * int(24*time.Hour/time.Second)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    url.QueryEscape(token),
		MaxAge:   maxAge,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthToken reads the session token from the request.
func AuthToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	token, err := url.QueryUnescape(c.Value)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// ClearAuthToken expires the session cookie.
func ClearAuthToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}
