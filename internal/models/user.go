package models

import "time"

// Relationship of another user relative to the viewer.
const (
	RelationshipNone      = "none"
	RelationshipRequested = "requested" // viewer sent a request, unanswered
	RelationshipIncoming  = "incoming"  // other side sent a request, unanswered
	RelationshipFriends   = "friends"
)

// Presence status values delivered by the server.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

type User struct {
	ID           int        `json:"id"`
	DisplayName  string     `json:"display_name"`
	AvatarURL    *string    `json:"avatar_url"`
	Email        string     `json:"email,omitempty"`
	Status       string     `json:"status,omitempty"`
	LastSeen     *time.Time `json:"last_seen,omitempty"`
	Relationship string     `json:"relationship,omitempty"`
}
