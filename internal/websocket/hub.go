// internal/websocket/hub.go
// WebSocket hub manages client connections and broadcasts race-result and
// propagation updates as time-events are processed (SPEC_FULL.md §9).

package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/nsf-ski/race-service/internal/services"
)

// Hub maintains active websocket connections and broadcasts messages
type Hub struct {
	// Registered clients by race ID
	races map[string]map[*Client]bool

	// Registered clients by user ID
	users map[string]*Client

	// Register client
	register chan *Client

	// Unregister client
	unregister chan *Client

	// Broadcast messages to a race's subscribers
	broadcast chan *Message

	// Services
	services *services.Container
	logger   *log.Logger

	// Mutex for concurrent access
	mu sync.RWMutex
}

// Message represents a WebSocket message
type Message struct {
	Type   string      `json:"type"`
	RaceID string      `json:"race_id,omitempty"`
	UserID string      `json:"user_id,omitempty"`
	Data   interface{} `json:"data"`
}

// NewHub creates a new WebSocket hub
func NewHub(services *services.Container, logger *log.Logger) *Hub {
	return &Hub{
		races:      make(map[string]map[*Client]bool),
		users:      make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		services:   services,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// registerClient adds a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.userID != "" {
		if existing, exists := h.users[client.userID]; exists {
			existing.close()
			h.removeClient(existing)
		}
		h.users[client.userID] = client
	}

	for _, raceID := range client.races {
		if h.races[raceID] == nil {
			h.races[raceID] = make(map[*Client]bool)
		}
		h.races[raceID][client] = true
	}

	h.logger.Printf("Client registered: %s (races: %v)", client.userID, client.races)
}

// unregisterClient removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeClient(client)
	client.close()

	h.logger.Printf("Client unregistered: %s", client.userID)
}

// removeClient removes client from all registrations
func (h *Hub) removeClient(client *Client) {
	if client.userID != "" {
		delete(h.users, client.userID)
	}

	for _, raceID := range client.races {
		if clients, exists := h.races[raceID]; exists {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.races, raceID)
			}
		}
	}
}

// broadcastMessage sends a message to relevant clients
func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Printf("Failed to marshal message: %v", err)
		return
	}

	if message.RaceID != "" {
		if clients, exists := h.races[message.RaceID]; exists {
			for client := range clients {
				select {
				case client.send <- data:
				default:
					h.removeClient(client)
					client.close()
				}
			}
		}
	}

	if message.UserID != "" {
		if client, exists := h.users[message.UserID]; exists {
			select {
			case client.send <- data:
			default:
				h.removeClient(client)
				client.close()
			}
		}
	}
}

// BroadcastRaceUpdate broadcasts a race-result or propagation update to all
// clients subscribed to raceID.
func (h *Hub) BroadcastRaceUpdate(raceID string, updateType string, data interface{}) {
	message := &Message{
		Type:   updateType,
		RaceID: raceID,
		Data:   data,
	}
	h.broadcast <- message
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID string, messageType string, data interface{}) {
	message := &Message{
		Type:   messageType,
		UserID: userID,
		Data:   data,
	}
	h.broadcast <- message
}

// SubscribeToRace subscribes a client to a race's updates
func (h *Hub) SubscribeToRace(client *Client, raceID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.races = append(client.races, raceID)

	if h.races[raceID] == nil {
		h.races[raceID] = make(map[*Client]bool)
	}
	h.races[raceID][client] = true

	h.logger.Printf("Client %s subscribed to race %s", client.userID, raceID)
}

// UnsubscribeFromRace unsubscribes a client from a race's updates
func (h *Hub) UnsubscribeFromRace(client *Client, raceID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, id := range client.races {
		if id == raceID {
			client.races = append(client.races[:i], client.races[i+1:]...)
			break
		}
	}

	if clients, exists := h.races[raceID]; exists {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.races, raceID)
		}
	}

	h.logger.Printf("Client %s unsubscribed from race %s", client.userID, raceID)
}
