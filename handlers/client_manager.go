package handlers

import (
	"sync"

	"square-mapper/logging"
	"square-mapper/messages"
	"square-mapper/services"
)

// ClientManager manages connected clients
type ClientManager struct {
	clients map[string]*ClientHandler // Map connection ID to ClientHandler
	mutex   sync.RWMutex
}

// NewClientManager creates a new client manager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*ClientHandler),
	}
}

// AddClient adds a client to the manager
func (cm *ClientManager) AddClient(clientID string, handler *ClientHandler) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[clientID] = handler
}

// RemoveClient removes a client from the manager
func (cm *ClientManager) RemoveClient(clientID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.clients, clientID)
}

// Count returns the number of connected clients
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// BroadcastToAll sends a message to all connected clients
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, client := range cm.clients {
		if err := client.conn.SendMessage(msg); err != nil {
			logging.Warn("error broadcasting to client", "client", id, "err", err)
		}
	}
}

// BroadcastMapEvents forwards every change applied to svc to all clients
func (cm *ClientManager) BroadcastMapEvents(svc *services.MapService) {
	svc.OnChange(func(ev services.Event) {
		cm.BroadcastToAll(messages.BaseMessage{
			Type: messages.MessageTypeMapEvent,
			Payload: messages.MapEventMessage{
				Event:  string(ev.Type),
				Name:   ev.Name,
				Change: ev.Change,
			},
		})
	})
}
