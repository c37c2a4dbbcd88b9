package handlers

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/forge-app/forge-api/internal/logger"
	"github.com/forge-app/forge-api/internal/middleware"
)

// Event types sent over WebSocket
const (
	EventHabitUpdated       = "habit_updated"
	EventHabitDeleted       = "habit_deleted"
	EventGoalUpdated        = "goal_updated"
	EventGoalDeleted        = "goal_deleted"
	EventTaskUpdated        = "task_updated"
	EventTaskDeleted        = "task_deleted"
	EventBrainDumpUpdated   = "braindump_updated"
	EventBrainDumpDeleted   = "braindump_deleted"
	EventPrayerUpdated      = "prayer_updated"
	EventTransactionUpdated = "transaction_updated"
	EventTransactionDeleted = "transaction_deleted"
	EventLevelUp            = "level_up"
	EventNotification       = "notification"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// connection wraps a websocket connection. Writes to one connection are
// serialized.
type connection struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	userID uuid.UUID
}

func (c *connection) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub tracks the open sessions of every user so a change made on one device
// reaches the others.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[*connection]bool // userID -> set of connections
}

// Global hub instance
var WS = NewHub()

func NewHub() *Hub {
	return &Hub{sessions: make(map[uuid.UUID]map[*connection]bool)}
}

func (h *Hub) register(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[conn.userID] == nil {
		h.sessions[conn.userID] = make(map[*connection]bool)
	}
	h.sessions[conn.userID][conn] = true
	logger.Log.Debug().Str("user", conn.userID.String()).Int("sessions", len(h.sessions[conn.userID])).Msg("WS register")
}

func (h *Hub) unregister(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.sessions[conn.userID]; ok {
		delete(conns, conn)
		logger.Log.Debug().Str("user", conn.userID.String()).Int("sessions", len(conns)).Msg("WS unregister")
		if len(conns) == 0 {
			delete(h.sessions, conn.userID)
		}
	}
}

// Sessions reports how many connections a user has open.
func (h *Hub) Sessions(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}

// Send delivers an event to every open session of the user. A user with no
// sessions is a no-op.
func (h *Hub) Send(userID uuid.UUID, event WSEvent) {
	h.mu.RLock()
	conns := make([]*connection, 0, len(h.sessions[userID]))
	for c := range h.sessions[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		logger.Log.Warn().Err(err).Str("event", event.Type).Msg("WS marshal failed")
		return
	}

	for _, c := range conns {
		if err := c.write(msg); err != nil {
			logger.Log.Warn().Err(err).Str("user", userID.String()).Msg("WS write failed")
		}
	}
}

// WebSocketUpgrade is the middleware that checks the upgrade request and validates JWT
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Authenticate via query param: ?token=<jwt>
		tokenString := c.Query("token")
		if tokenString == "" {
			// Also check Authorization header for non-browser clients
			tokenString = middleware.BearerToken(c)
		}

		if tokenString == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing authentication token")
		}

		claims, err := middleware.ParseToken(tokenString)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}

// HandleWebSocket keeps one session of the authenticated user open.
func HandleWebSocket(c *websocket.Conn) {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	conn := &connection{conn: c, userID: userID}
	WS.register(conn)
	defer WS.unregister(conn)

	// Read until the client goes away; clients only send keepalives.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
