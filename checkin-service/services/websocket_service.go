package services

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"rollcall-backend/shared/config"
)

// CheckInMessage is one live roster frame pushed to admin viewers.
type CheckInMessage struct {
	Type        string    `json:"type"`
	EventID     uint      `json:"event_id"`
	EventCode   string    `json:"event_code"`
	MemberName  string    `json:"member_name"`
	NewMember   bool      `json:"new_member"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

// ClientConnection represents one admin roster view subscribed to an event.
type ClientConnection struct {
	ClientID   string
	EventID    uint
	Connection *websocket.Conn
}

// WebSocketManager fans live check-ins out to the admin roster views
// watching each event.
type WebSocketManager struct {
	clients    map[uint]map[string]*websocket.Conn // eventID -> clientID -> connection
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	register   chan *ClientConnection
	unregister chan *ClientConnection
	broadcast  chan *CheckInMessage
}

var wsManager *WebSocketManager
var once sync.Once

// GetWebSocketManager returns the singleton WebSocket manager
func GetWebSocketManager() *WebSocketManager {
	once.Do(func() {
		wsManager = &WebSocketManager{
			clients: make(map[uint]map[string]*websocket.Conn),
			upgrader: websocket.Upgrader{
				CheckOrigin: func(r *http.Request) bool {
					origin := r.Header.Get("Origin")

					if origin == config.GetConfig().FrontendURL {
						return true
					}

					log.Printf("🚫 WebSocket connection rejected from origin: %s", origin)
					return false
				},
			},
			register:   make(chan *ClientConnection, 100),
			unregister: make(chan *ClientConnection, 100),
			broadcast:  make(chan *CheckInMessage, 1000),
		}
		go wsManager.run()
	})
	return wsManager
}

// run handles the manager event loop
func (wsm *WebSocketManager) run() {
	for {
		select {
		case client := <-wsm.register:
			wsm.registerClient(client)

		case client := <-wsm.unregister:
			wsm.unregisterClient(client)

		case message := <-wsm.broadcast:
			wsm.broadcastMessage(message)
		}
	}
}

// registerClient adds a roster view to its event's room
func (wsm *WebSocketManager) registerClient(client *ClientConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	room, exists := wsm.clients[client.EventID]
	if !exists {
		room = make(map[string]*websocket.Conn)
		wsm.clients[client.EventID] = room
	}
	room[client.ClientID] = client.Connection

	log.Printf("🔌 Roster view connected to event %d: %s (viewers: %d)",
		client.EventID, client.ClientID, len(room))
}

// unregisterClient removes a roster view and its empty room
func (wsm *WebSocketManager) unregisterClient(client *ClientConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	room, exists := wsm.clients[client.EventID]
	if !exists {
		return
	}

	if conn, ok := room[client.ClientID]; ok {
		delete(room, client.ClientID)
		conn.Close()
		log.Printf("🔌 Roster view disconnected from event %d: %s (viewers: %d)",
			client.EventID, client.ClientID, len(room))
	}

	if len(room) == 0 {
		delete(wsm.clients, client.EventID)
	}
}

// broadcastMessage sends a check-in frame to every viewer of its event
func (wsm *WebSocketManager) broadcastMessage(message *CheckInMessage) {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	room, exists := wsm.clients[message.EventID]
	if !exists {
		return
	}

	for clientID, conn := range room {
		if err := conn.WriteJSON(message); err != nil {
			log.Printf("❌ Failed to send check-in to viewer %s: %v", clientID, err)
			go func(id string, eventID uint, connection *websocket.Conn) {
				wsm.unregister <- &ClientConnection{ClientID: id, EventID: eventID, Connection: connection}
			}(clientID, message.EventID, conn)
		}
	}
}

// BroadcastCheckIn queues a check-in frame for an event's viewers
func (wsm *WebSocketManager) BroadcastCheckIn(message *CheckInMessage) {
	select {
	case wsm.broadcast <- message:
		// Message queued successfully
	default:
		log.Printf("⚠️ Broadcast queue full, dropping check-in for event %d", message.EventID)
	}
}

// HandleWebSocketConnection upgrades the HTTP connection and subscribes it
// to the requested event's check-in feed
func (wsm *WebSocketManager) HandleWebSocketConnection(c *gin.Context, eventID uint) {
	conn, err := wsm.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Failed to upgrade WebSocket: %v", err)
		return
	}

	client := &ClientConnection{
		ClientID:   uuid.NewString(),
		EventID:    eventID,
		Connection: conn,
	}

	wsm.register <- client

	// Drain reads until the peer goes away; the feed is write-only.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wsm.unregister <- client
				return
			}
		}
	}()
}
