package models

import "time"

// Message is immutable once received except for IsRead, which only ever
// transitions false -> true.
type Message struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"sender_id"`
	ReceiverID int       `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
	Sender     User      `json:"sender"`
}

// Conversation is keyed by the other participant. LastMessage is nil for a
// conversation with no history yet.
type Conversation struct {
	Friend      User     `json:"friend"`
	LastMessage *Message `json:"last_message"`
	UnreadCount int      `json:"unread_count"`
}
