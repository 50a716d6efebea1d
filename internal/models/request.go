package models

import "time"

type FriendRequest struct {
	ID        int       `json:"id"`
	Requester User      `json:"requester"`
	Addressee User      `json:"addressee"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is a persisted server-side notification, fetched over REST.
type Notification struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
