package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/isdelr/devconnector-be/internal/auth"
	ws "github.com/isdelr/devconnector-be/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHandler_PingReply(t *testing.T) {
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	h := NewWebSocketHandler(hub, auth.NewAuthenticator([]byte("k")), nil)
	c := ws.NewClient(hub, nil, "u1")
	hub.Join(c)

	h.handleIncomingWSMessage(c, []byte(`{"action":"ping"}`))
	h.handleIncomingWSMessage(c, []byte(`{"action":"dance"}`))

	for _, want := range []string{"pong", "error"} {
		select {
		case data := <-c.Send:
			var msg ws.Message
			require.NoError(t, json.Unmarshal(data, &msg))
			assert.Equal(t, want, msg.Action)
		case <-time.After(2 * time.Second):
			t.Fatalf("no %q reply", want)
		}
	}
}

func TestWebSocketHandler_RepliesDuringDisconnect(t *testing.T) {
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	h := NewWebSocketHandler(hub, auth.NewAuthenticator([]byte("k")), nil)
	c := ws.NewClient(hub, nil, "u1")
	hub.Join(c)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			h.handleIncomingWSMessage(c, []byte(`{"action":"ping"}`))
		}
	}()
	go func() {
		for range c.Send {
		}
	}()

	hub.Leave(c)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("replies blocked after disconnect")
	}
}
