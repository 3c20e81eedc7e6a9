// Package chat relays conversation messages to websocket clients. Messages
// are persisted by the chat service first and then broadcast to every
// client that joined the conversation, on this instance and, with Redis,
// on every other instance.
package chat

import "encoding/json"

// Event names on the wire.
const (
	EventJoinRoom       = "join_room"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventMessageError   = "message_error"
)

// Envelope is the frame exchanged in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type joinRoom struct {
	ConversationID uint64 `json:"conversation_id"`
}

type sendMessage struct {
	ConversationID uint64 `json:"conversation_id"`
	Content        string `json:"content"`
}

type messageError struct {
	Error string `json:"error"`
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
