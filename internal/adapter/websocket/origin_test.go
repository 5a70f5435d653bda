package websocket

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCheckOrigin(t *testing.T) {
	allowed := []string{"https://status.example.com", "https://admin.example.com/dashboard"}

	tests := []struct {
		name          string
		allowed       []string
		origin        string
		isDevelopment bool
		want          bool
	}{
		{"empty origin", allowed, "", false, true},
		{"listed origin", allowed, "https://status.example.com", false, true},
		{"listed origin from URL with path", allowed, "https://admin.example.com", false, true},

		{"different host", allowed, "https://evil.com", false, false},
		{"different port", allowed, "https://status.example.com:9090", false, false},
		{"http instead of https", allowed, "http://status.example.com", false, false},

		{"localhost dev", allowed, "http://localhost:3000", true, true},
		{"127.0.0.1 dev", allowed, "http://127.0.0.1:3000", true, true},
		{"localhost prod rejected", allowed, "http://localhost:3000", false, false},

		{"wildcard", []string{"*"}, "https://anything.example.org", false, true},
		{"nothing allowed", nil, "https://status.example.com", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewCheckOrigin(tt.allowed, tt.isDevelopment)
			r, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/connection/websocket", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, checker(r))
		})
	}
}

func TestExtractOrigin(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   string
	}{
		{"full URL with path", "https://example.com/app", "https://example.com"},
		{"URL with port", "https://example.com:8443/path", "https://example.com:8443"},
		{"wildcard", "*", ""},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractOrigin(tt.rawURL))
		})
	}
}
