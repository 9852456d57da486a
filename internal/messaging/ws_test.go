package messaging

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

func dial(t *testing.T, srv *httptest.Server, conv string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + conv
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var evt wsEvent
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

func TestHubPushesConversationEvents(t *testing.T) {
	hub := NewHub()
	e := echo.New()
	e.GET("/ws/:id", func(c echo.Context) error {
		return hub.Serve(c, c.Param("id"), c.QueryParam("user"))
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn := dial(t, srv, "c1")
	assert.Equal(t, EventPresenceJoin, readEvent(t, conn).Type)

	other := dial(t, srv, "c2")
	assert.Equal(t, EventPresenceJoin, readEvent(t, other).Type)

	msg := marketplace.Message{ID: "m1", ConversationID: "c1", Desc: "hi"}
	require.NoError(t, hub.Notify(context.Background(), marketplace.Event{
		Type: marketplace.EventMessageCreated, ConversationID: "c1", Payload: msg,
	}))

	evt := readEvent(t, conn)
	assert.Equal(t, EventMessageNew, evt.Type)
	data, ok := evt.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hi", data["desc"])

	require.NoError(t, hub.Notify(context.Background(), marketplace.Event{
		Type: marketplace.EventConversationRead, ConversationID: "c2",
	}))
	assert.Equal(t, EventMessageRead, readEvent(t, other).Type)
}

func TestHubIgnoresUnrelatedEvents(t *testing.T) {
	hub := NewHub()
	require.NoError(t, hub.Notify(context.Background(), marketplace.Event{Type: marketplace.EventOrderPlaced}))
	require.NoError(t, hub.Notify(context.Background(), marketplace.Event{Type: marketplace.EventOrderPlaced, ConversationID: "c1"}))

	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.Empty(t, hub.rooms)
}

func roomCount(hub *Hub) int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.rooms)
}

func TestHubNotifyWithoutListenersKeepsNoRooms(t *testing.T) {
	hub := NewHub()
	for _, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, hub.Notify(context.Background(), marketplace.Event{
			Type: marketplace.EventMessageCreated, ConversationID: id, Payload: marketplace.Message{ID: "m-" + id},
		}))
		require.NoError(t, hub.Notify(context.Background(), marketplace.Event{
			Type: marketplace.EventConversationRead, ConversationID: id,
		}))
	}
	assert.Equal(t, 0, roomCount(hub))
}

func TestHubDropsRoomWhenLastSocketLeaves(t *testing.T) {
	hub := NewHub()
	e := echo.New()
	e.GET("/ws/:id", func(c echo.Context) error {
		return hub.Serve(c, c.Param("id"), c.QueryParam("user"))
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	first := dial(t, srv, "c1")
	assert.Equal(t, EventPresenceJoin, readEvent(t, first).Type)
	second := dial(t, srv, "c1")
	assert.Equal(t, EventPresenceJoin, readEvent(t, second).Type)
	assert.Equal(t, 1, roomCount(hub))

	require.NoError(t, first.Close())
	assert.Equal(t, EventPresenceLeave, readEvent(t, second).Type)
	assert.Equal(t, 1, roomCount(hub))

	require.NoError(t, second.Close())
	assert.Eventually(t, func() bool { return roomCount(hub) == 0 }, 2*time.Second, 10*time.Millisecond)
}
