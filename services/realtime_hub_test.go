package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealtimeHubBroadcast(t *testing.T) {
	t.Parallel()

	hub := NewRealtimeHub()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(&WSClient{UserID: 7, Conn: conn})
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.HasClients(7) },
		time.Second, 10*time.Millisecond)
	assert.False(t, hub.HasClients(8))

	hub.Broadcast(7, map[string]any{"kind": "summary.updated", "summary": map[string]any{"date": "2026-08-24"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"kind":"summary.updated"`)

	// Broadcasting to a user with no connections is a no-op.
	hub.Broadcast(8, map[string]any{"kind": "summary.updated"})
}

func TestRealtimeHubUnregister(t *testing.T) {
	t.Parallel()

	hub := NewRealtimeHub()
	upgrader := websocket.Upgrader{}
	registered := make(chan *WSClient, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cl := &WSClient{UserID: 3, Conn: conn}
		hub.Register(cl)
		registered <- cl
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	var cl *WSClient
	select {
	case cl = <-registered:
	case <-time.After(time.Second):
		t.Fatal("client never registered")
	}
	require.True(t, hub.HasClients(3))

	hub.Unregister(cl)
	assert.False(t, hub.HasClients(3))
}
