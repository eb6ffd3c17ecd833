package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Event is the wire envelope pushed to connected clients.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 45 * time.Second
	sendBufferSize = 32
)

// Client is one websocket connection. A user may hold several at once
// (multiple tabs); each gets its own send queue.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	userID   uuid.UUID
	projects map[uuid.UUID]struct{}
}

// Hub routes events to user channels and project rooms. Delivery is best
// effort: a client whose send queue is full is dropped rather than allowed
// to stall the emitter, and persistence happens before any emit so a missed
// push is recoverable from the notification list.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID]map[*Client]struct{}
	byProj map[uuid.UUID]map[*Client]struct{}
	logger *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		byUser: make(map[uuid.UUID]map[*Client]struct{}),
		byProj: make(map[uuid.UUID]map[*Client]struct{}),
		logger: logger,
	}
}

// Register wires a connection into its user channel and project rooms and
// starts its pumps. Blocks until the connection closes.
func (h *Hub) Register(conn *websocket.Conn, userID uuid.UUID, projectIDs []uuid.UUID) {
	c := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		userID:   userID,
		projects: make(map[uuid.UUID]struct{}, len(projectIDs)),
	}
	for _, id := range projectIDs {
		c.projects[id] = struct{}{}
	}

	h.mu.Lock()
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[*Client]struct{})
	}
	h.byUser[userID][c] = struct{}{}
	for id := range c.projects {
		if h.byProj[id] == nil {
			h.byProj[id] = make(map[*Client]struct{})
		}
		h.byProj[id][c] = struct{}{}
	}
	h.mu.Unlock()

	go c.writePump()
	c.readPump()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if conns, ok := h.byUser[c.userID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.byUser, c.userID)
		}
	}
	for id := range c.projects {
		if conns, ok := h.byProj[id]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.byProj, id)
			}
		}
	}
	h.mu.Unlock()
	close(c.send)
}

// JoinProject adds an existing user's connections to a project room, used
// when a member is added while already connected.
func (h *Hub) JoinProject(userID, projectID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.byUser[userID] {
		c.projects[projectID] = struct{}{}
		if h.byProj[projectID] == nil {
			h.byProj[projectID] = make(map[*Client]struct{})
		}
		h.byProj[projectID][c] = struct{}{}
	}
}

func (h *Hub) LeaveProject(userID, projectID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.byUser[userID] {
		delete(c.projects, projectID)
		if conns, ok := h.byProj[projectID]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.byProj, projectID)
			}
		}
	}
}

// EmitToUser pushes an event to every connection the user holds. Errors
// are logged, never returned; emits must not fail the calling operation.
func (h *Hub) EmitToUser(userID uuid.UUID, event string, data any) {
	msg, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		h.logger.Printf("realtime: marshal %s: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byUser[userID] {
		c.enqueue(msg)
	}
}

// EmitToProject pushes an event to every connection in the project room,
// skipping the excluded user (the actor who caused the event).
func (h *Hub) EmitToProject(projectID uuid.UUID, event string, data any, exclude *uuid.UUID) {
	msg, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		h.logger.Printf("realtime: marshal %s: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byProj[projectID] {
		if exclude != nil && c.userID == *exclude {
			continue
		}
		c.enqueue(msg)
	}
}

// OnlineUsers reports the distinct users currently connected to a project
// room.
func (h *Hub) OnlineUsers(projectID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{})
	ids := []uuid.UUID{}
	for c := range h.byProj[projectID] {
		if _, ok := seen[c.userID]; ok {
			continue
		}
		seen[c.userID] = struct{}{}
		ids = append(ids, c.userID)
	}
	return ids
}

func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Slow consumer; closing the socket lets the client reconnect
		// and recover from the notification list.
		c.conn.Close()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
