// Package messaging pushes conversation activity to connected websocket
// clients.
package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/talktrade/internal/logger"
	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

const (
	EventMessageNew    = "message_new"
	EventMessageRead   = "message_read"
	EventPresenceJoin  = "presence_join"
	EventPresenceLeave = "presence_leave"
)

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type room struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// broadcast holds the room lock while writing; gorilla connections allow one
// writer at a time.
func (r *room) broadcast(evt wsEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		logger.Warn("ws encode failed", "type", evt.Type, "error", err)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Debug("ws write failed", "error", err)
		}
	}
}

// Hub keeps one room per conversation and implements marketplace.Notifier
// for message and read events.
type Hub struct {
	mu       sync.Mutex
	rooms    map[string]*room
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]*room),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// join adds c to the conversation's room, creating the room if needed.
// Lookup and registration both happen under h.mu.
func (h *Hub) join(conversationID string, c *websocket.Conn) *room {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[conversationID]
	if !ok {
		r = &room{clients: make(map[*websocket.Conn]bool)}
		h.rooms[conversationID] = r
	}
	r.mu.Lock()
	r.clients[c] = true
	r.mu.Unlock()
	return r
}

// leave removes c and forgets the room once its last client has gone.
func (h *Hub) leave(conversationID string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[conversationID]
	if !ok {
		return
	}
	r.mu.Lock()
	delete(r.clients, c)
	empty := len(r.clients) == 0
	r.mu.Unlock()
	if empty {
		delete(h.rooms, conversationID)
	}
}

// lookup returns the room of a conversation with connected clients, or nil.
func (h *Hub) lookup(conversationID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[conversationID]
}

// Serve upgrades the request and keeps the socket in the conversation's room
// until the client goes away. The caller has already checked that userID
// takes part in the conversation.
func (h *Hub) Serve(c echo.Context, conversationID, userID string) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	r := h.join(conversationID, ws)
	r.broadcast(wsEvent{Type: EventPresenceJoin, Data: echo.Map{"user_id": userID}})

	// Read loop (discard client messages; protocol is server push for now)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			h.leave(conversationID, ws)
			_ = ws.Close()
			r.broadcast(wsEvent{Type: EventPresenceLeave, Data: echo.Map{"user_id": userID}})
			break
		}
	}
	return nil
}

func (h *Hub) Notify(_ context.Context, ev marketplace.Event) error {
	if ev.ConversationID == "" {
		return nil
	}
	var evt wsEvent
	switch ev.Type {
	case marketplace.EventMessageCreated:
		evt = wsEvent{Type: EventMessageNew, Data: ev.Payload}
	case marketplace.EventConversationRead:
		evt = wsEvent{Type: EventMessageRead, Data: ev.Payload}
	default:
		return nil
	}
	// Nobody is listening; rooms only exist while a socket is connected.
	if r := h.lookup(ev.ConversationID); r != nil {
		r.broadcast(evt)
	}
	return nil
}
