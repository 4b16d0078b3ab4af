package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active feed clients and broadcasts messages to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for every connected client.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Messages addressed to a single client.
	direct chan directMessage

	done chan struct{}
}

type directMessage struct {
	client  *Client
	message []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		direct:     make(chan directMessage, 64),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Feed client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Feed client disconnected")
			}
		case d := <-h.direct:
			if _, ok := h.clients[d.client]; ok {
				select {
				case d.client.Send <- d.message:
				default:
				}
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// slow consumer
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Join registers client. It does not block once the hub has stopped.
func (h *Hub) Join(client *Client) {
	select {
	case h.Register <- client:
	case <-h.done:
	}
}

// Leave unregisters client. It does not block once the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// SendTo queues message for one registered client. Only the hub writes to or
// closes a client's Send channel, so replies to a client go through here.
// Messages for unknown or disconnected clients are dropped.
func (h *Hub) SendTo(client *Client, message []byte) {
	select {
	case h.direct <- directMessage{client: client, message: message}:
	case <-h.done:
	}
}

// Publish encodes an action and its payload and queues it for every client.
// Messages are dropped when the broadcast queue is full.
func (h *Hub) Publish(action string, payload any) {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode feed message")
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		log.Warn().Str("action", action).Msg("Feed broadcast queue full, dropping message")
	}
}
