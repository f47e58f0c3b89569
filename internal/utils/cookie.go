package utils

import (
	"net/http" // Cookie handling
	"time"     // Max age
)

const (
	// TokenCookieName is the cookie holding the session token
	TokenCookieName = "token"

	// TokenCookieMaxAge keeps the session for a year
	TokenCookieMaxAge = 365 * 24 * time.Hour
)

// SetTokenCookie writes the session cookie.
// Cross-site front ends need SameSite=None, which browsers only accept on Secure cookies.
func SetTokenCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenCookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite(secure),
	})
}

// ClearTokenCookie expires the session cookie
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite(secure),
	})
}

func sameSite(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
