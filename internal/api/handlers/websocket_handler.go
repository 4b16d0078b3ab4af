package handlers

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/common"
	ws "github.com/isdelr/devconnector-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades authenticated requests to live feed connections.
type WebSocketHandler struct {
	hub           *ws.Hub
	authenticator *auth.Authenticator
	upgrader      websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. Browser origins must be
// in allowedOrigins unless it contains "*".
func NewWebSocketHandler(hub *ws.Hub, authenticator *auth.Authenticator, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		authenticator: authenticator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Serve handles the WebSocket connection request. Browsers cannot set custom
// headers on the upgrade, so the credential travels in the "token" query parameter.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id, err := h.authenticator.Verify(r.URL.Query().Get("token"))
	if err != nil {
		log.Debug().Err(err).Msg("Rejected feed connection")
		common.RespondWithError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, id.String())
	h.hub.Join(client)

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleIncomingWSMessage)
		h.hub.Leave(client)
	}()
}

// handleIncomingWSMessage processes messages received from a feed client.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Warn().Err(err).Str("user_id", client.UserID).Msg("Error decoding websocket message")
		h.reply(client, ws.NewErrorMessage("Invalid message"))
		return
	}

	switch msg.Action {
	case "ping":
		h.reply(client, ws.NewMessage("pong", nil))
	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		h.reply(client, ws.NewErrorMessage("Unknown action: "+msg.Action))
	}
}

// reply queues a message for one client through the hub.
func (h *WebSocketHandler) reply(client *ws.Client, message []byte) {
	h.hub.SendTo(client, message)
}
