package useragent

import (
	"net/http"
	"strings"
)

// Describe turns the User-Agent header into a short "Browser on OS" label
// for spectator logs.
func Describe(r *http.Request) string {
	ua := r.Header.Get("User-Agent")
	if ua == "" {
		return "unknown client"
	}
	return browser(ua) + " on " + platform(ua)
}

func browser(ua string) string {
	switch {
	case strings.Contains(ua, "Edg/"):
		return "Edge"
	case strings.Contains(ua, "Firefox/"):
		return "Firefox"
	case strings.Contains(ua, "Chrome/"):
		return "Chrome"
	case strings.Contains(ua, "Safari/"):
		return "Safari"
	case strings.HasPrefix(ua, "Go-http-client"):
		return "Go client"
	case strings.HasPrefix(ua, "curl/"):
		return "curl"
	}
	return "unknown browser"
}

func platform(ua string) string {
	switch {
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "iPhone"), strings.Contains(ua, "iPad"):
		return "iOS"
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case strings.Contains(ua, "Mac OS X"):
		return "macOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	}
	return "unknown OS"
}
