package ws

import (
	"sync"

	"github.com/atinomeri/freela-sub000/internal/logger"
)

// Manager keeps the set of connected clients keyed by user id. A user
// may hold several connections (tabs); an event addressed to a user is
// written to all of them. Delivery is best effort: a client whose send
// buffer is full gets dropped and reconnects.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.UserID] == nil {
				m.clients[client.UserID] = make(map[*Client]struct{})
			}
			m.clients[client.UserID][client] = struct{}{}
			m.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID)

		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					close(client.Send)
					delete(conns, client)
					if len(conns) == 0 {
						delete(m.clients, client.UserID)
					}
				}
			}
			m.mu.Unlock()
			logger.Debug("ws client unregistered", "user_id", client.UserID)
		}
	}
}

// SendToUsers implements realtime.Sink.
func (m *Manager) SendToUsers(userIDs []string, payload any) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, userID := range userIDs {
		for client := range m.clients[userID] {
			select {
			case client.Send <- payload:
			default:
				// Slow consumer: drop the connection, not the event
				// stream for everyone else.
				go func(c *Client) { m.unregister <- c }(client)
			}
		}
	}
}
