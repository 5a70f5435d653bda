package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
)

// NewCheckOrigin returns a CheckOrigin function for the WebSocket handler.
// A "*" entry in allowed admits every origin. Empty origins (non-browser
// clients) are always allowed, and localhost is allowed in development.
func NewCheckOrigin(allowed []string, isDevelopment bool) func(r *http.Request) bool {
	allowAll := slices.Contains(allowed, "*")

	origins := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		if o := extractOrigin(a); o != "" {
			origins[o] = struct{}{}
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if origin == "" || allowAll {
			return true
		}

		if _, ok := origins[origin]; ok {
			return true
		}

		if isDevelopment && isLocalhostOrigin(origin) {
			return true
		}

		slog.Warn("WebSocket origin rejected", "origin", origin, "remote_addr", r.RemoteAddr)
		return false
	}
}

func extractOrigin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func isLocalhostOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}
