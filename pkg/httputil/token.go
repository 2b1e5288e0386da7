package httputil

import (
	"errors"
	"net/http"
	"strings"
)

const (
	WatchCookieName = "watch_token"
	TokenQueryParam = "token"
)

var ErrNoToken = errors.New("no watch token in query, header or cookie")

// SetWatchCookie remembers a watch token so a browser can reconnect to the
// feed without the query parameter.
func SetWatchCookie(w http.ResponseWriter, token string, maxAgeSeconds int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     WatchCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetTokenFromRequest looks at the query string first since browsers cannot
// set headers on a websocket upgrade, then the Authorization header, then
// the cookie.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if token := strings.TrimSpace(r.URL.Query().Get(TokenQueryParam)); token != "" {
		return token, nil
	}

	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token), nil
		}
		return authHeader, nil
	}

	if cookie, err := r.Cookie(WatchCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", ErrNoToken
}
