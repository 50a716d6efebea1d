package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound event names pushed by the server.
const (
	EventError                 = "error"
	EventFriendRequestReceived = "friend_request_received"
	EventFriendRequestResponse = "friend_request_responded"
	EventFriendStatusChanged   = "friend_status_changed"
	EventMessageReceived       = "message_received"
	EventNewMessageNotice      = "new_message_notification"
	EventMessagesMarkedRead    = "messages_marked_read"
)

// Outbound command event names.
const (
	EventSendFriendRequest    = "send_friend_request"
	EventRespondFriendRequest = "respond_friend_request"
	EventJoinChat             = "join_chat"
	EventSendMessage          = "send_message"
	EventMarkMessagesRead     = "mark_messages_read"
)

// Friend request response actions.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// FriendRequestRespondedEvent carries the outcome of a request the viewer sent.
// User is only present when the request was accepted.
type FriendRequestRespondedEvent struct {
	ID     int    `json:"id"`
	Action string `json:"action"`
	User   *User  `json:"user,omitempty"`
}

func (e *FriendRequestRespondedEvent) Validate() error {
	if e.ID <= 0 {
		return errors.New("missing request id")
	}
	if e.Action != ActionAccept && e.Action != ActionDecline {
		return fmt.Errorf("unknown action %q", e.Action)
	}
	if e.Action == ActionAccept && e.User == nil {
		return errors.New("accept without user")
	}
	return nil
}

type FriendStatusChangedEvent struct {
	UserID int    `json:"user_id"`
	Status string `json:"status"`
}

func (e *FriendStatusChangedEvent) Validate() error {
	if e.UserID <= 0 {
		return errors.New("missing user id")
	}
	if e.Status != StatusOnline && e.Status != StatusOffline {
		return fmt.Errorf("unknown status %q", e.Status)
	}
	return nil
}

type NewMessageNotificationEvent struct {
	Sender  User    `json:"sender"`
	Message Message `json:"message"`
}

func (e *NewMessageNotificationEvent) Validate() error {
	if e.Sender.ID <= 0 {
		return errors.New("missing sender")
	}
	return nil
}

type MessagesMarkedReadEvent struct {
	SenderID   int `json:"sender_id"`
	ReceiverID int `json:"receiver_id"`
}

func (e *MessagesMarkedReadEvent) Validate() error {
	if e.SenderID <= 0 || e.ReceiverID <= 0 {
		return errors.New("missing participant id")
	}
	return nil
}

// ValidateMessage checks an inbound chat message before it is stored.
func ValidateMessage(m *Message) error {
	if m.ID <= 0 {
		return errors.New("missing message id")
	}
	if m.SenderID <= 0 || m.ReceiverID <= 0 {
		return errors.New("missing participant id")
	}
	return nil
}

// ValidateFriendRequest checks an inbound friend request payload.
func ValidateFriendRequest(r *FriendRequest) error {
	if r.ID <= 0 {
		return errors.New("missing request id")
	}
	if r.Requester.ID <= 0 {
		return errors.New("missing requester")
	}
	return nil
}

// Outbound command payloads.

type SendFriendRequestCmd struct {
	Email string `json:"email"`
}

type RespondFriendRequestCmd struct {
	RequestID int    `json:"request_id"`
	Action    string `json:"action"`
}

type JoinChatCmd struct {
	FriendID int `json:"friend_id"`
}

type SendMessageCmd struct {
	ReceiverID int    `json:"receiver_id"`
	Content    string `json:"content"`
}

type MarkMessagesReadCmd struct {
	SenderID int `json:"sender_id"`
}
