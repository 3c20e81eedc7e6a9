package model

import "time"

const (
	ConversationOpen   = "open"
	ConversationClosed = "closed"
)

// Message sender kinds.
const (
	SenderUser  = "user"
	SenderGuest = "guest"
)

// Conversation is a chat thread between the front desk and one guest.
type Conversation struct {
	ID              uint64     `json:"id"`
	GuestID         uint64     `json:"guest_id"`
	AttendantUserID *uint64    `json:"attendant_user_id,omitempty"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
}

// ConversationView adds guest, attendant and last message details.
type ConversationView struct {
	Conversation
	GuestFirstName  string     `json:"guest_first_name"`
	GuestLastName   string     `json:"guest_last_name"`
	GuestDocument   *string    `json:"guest_document,omitempty"`
	AttendantName   *string    `json:"attendant_name,omitempty"`
	LastMessage     *string    `json:"last_message,omitempty"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
}

// Message is a single chat line.
type Message struct {
	ID             uint64    `json:"id"`
	ConversationID uint64    `json:"conversation_id"`
	SenderType     string    `json:"sender_type"`
	SenderID       uint64    `json:"sender_id"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
	Read           bool      `json:"read"`
	SenderName     string    `json:"sender_name,omitempty"`
}
