package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"square-mapper/logging"
	"square-mapper/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The editor is meant to be reached from any local tool
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketHandler upgrades requests and serves them as editor clients
func NewWebSocketHandler(mapService *services.MapService, clientManager *ClientManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Warn("failed to upgrade connection", "err", err)
			return
		}

		HandleClientConnection(conn, mapService, clientManager)
	}
}
