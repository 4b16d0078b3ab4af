package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// NewMessage encodes a message. Payloads that cannot be encoded yield an error message.
func NewMessage(action string, payload any) []byte {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		return NewErrorMessage("failed to encode " + action)
	}
	return data
}

// NewErrorMessage builds an "error" message carrying msg.
func NewErrorMessage(msg string) []byte {
	data, _ := json.Marshal(Message{Action: "error", Payload: map[string]string{"msg": msg}})
	return data
}
