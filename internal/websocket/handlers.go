// internal/websocket/handlers.go
// WebSocket connection handlers

package websocket

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleConnection handles new WebSocket connections
func HandleConnection(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		userIDStr := ""
		if userID != nil {
			userIDStr = userID.(string)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, 256),
			userID: userIDStr,
			races:  make([]string, 0),
		}

		hub.register <- client

		welcomeMsg := Message{
			Type: "welcome",
			Data: map[string]interface{}{
				"message": "Connected to the race-timing live feed",
				"user_id": userIDStr,
			},
		}

		if data, err := json.Marshal(welcomeMsg); err == nil {
			client.send <- data
		}

		go client.writePump()
		go client.readPump()
	}
}

// Message types for WebSocket communication
const (
	// Time-event ingestion
	MessageTimeEventReceived = "time_event_received"
	MessageTimeEventRejected = "time_event_rejected"

	// Race-result updates
	MessageRaceResultUpdated = "race_result_updated"
	MessageRaceCompleted     = "race_completed"

	// Propagation
	MessagePropagationCompleted = "propagation_completed"

	// Notifications
	MessageNotification = "notification"
	MessageAlert        = "alert"
)
