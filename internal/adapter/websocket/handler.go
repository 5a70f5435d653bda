package websocket

import (
	"net/http"

	"github.com/centrifugal/centrifuge"
)

// NewHandler returns the HTTP handler that upgrades clients onto node.
func NewHandler(node *centrifuge.Node, checkOrigin func(r *http.Request) bool) http.Handler {
	return centrifuge.NewWebsocketHandler(node, centrifuge.WebsocketConfig{
		CheckOrigin: checkOrigin,
	})
}
