package websocket

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Hub maintains the set of active clients and delivers notification
// events to the connections belonging to a given user
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Users mapping (userID -> clients); a user may hold several
	// connections, one per tab
	users map[string]map[*Client]bool

	// Mutex for users map
	usersMux sync.RWMutex

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		users:      make(map[string]map[*Client]bool),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.addClient(client)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.removeClient(client)
			}
		}
	}
}

// addClient indexes a client under its user ID
func (h *Hub) addClient(client *Client) {
	h.usersMux.Lock()
	defer h.usersMux.Unlock()

	if _, ok := h.users[client.userID]; !ok {
		h.users[client.userID] = make(map[*Client]bool)
	}
	h.users[client.userID][client] = true
}

// removeClient drops a client from the user index
func (h *Hub) removeClient(client *Client) {
	h.usersMux.Lock()
	defer h.usersMux.Unlock()

	if clients, ok := h.users[client.userID]; ok {
		delete(clients, client)
		// Clean up empty entries
		if len(clients) == 0 {
			delete(h.users, client.userID)
		}
	}
}

// notifyUser sends a message to all of a user's connections
func (h *Hub) notifyUser(userID string, message []byte) {
	h.usersMux.RLock()
	defer h.usersMux.RUnlock()

	if clients, ok := h.users[userID]; ok {
		for client := range clients {
			select {
			case client.send <- message:
			default:
				close(client.send)
				delete(clients, client)
				delete(h.clients, client)
			}
		}
	}
}

// NotifyUser pushes a typed event to every connection the user holds.
// Users without an open connection simply miss the push; the next full
// fetch re-derives the same state from the store.
func NotifyUser(userID string, eventType string, payload interface{}) {
	if hub == nil {
		return
	}

	msg := Event{
		Type:    eventType,
		Payload: payload,
	}

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal websocket event")
		return
	}

	hub.notifyUser(userID, msgBytes)
}

// Global hub instance
var hub *Hub

// InitHub initializes the global hub
func InitHub() {
	hub = NewHub()
	go hub.Run()
}
