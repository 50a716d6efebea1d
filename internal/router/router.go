package router

import (
	"encoding/json"
	"fmt"
	"log"

	"chat-client/internal/models"
	"chat-client/internal/notify"
	"chat-client/internal/store"
	"chat-client/internal/utils"
)

// Router binds the fixed table of inbound event names to handlers that
// decode, validate and apply each payload to the store. Payloads that fail
// validation are logged and dropped; event names not in the table are
// silently ignored so a newer server never breaks the connection.
type Router struct {
	handlers map[string]func(json.RawMessage)
}

// New builds the event table for the given viewer.
func New(st *store.Store, notifier notify.Notifier, viewerID int) *Router {
	r := &Router{}
	r.handlers = map[string]func(json.RawMessage){
		models.EventError: func(data json.RawMessage) {
			log.Printf("Socket error: %s", data)
		},
		models.EventFriendRequestReceived: func(data json.RawMessage) {
			var req models.FriendRequest
			if err := parse(data, &req); err != nil {
				utils.LogError(err, models.EventFriendRequestReceived)
				return
			}
			if err := models.ValidateFriendRequest(&req); err != nil {
				utils.LogError(err, models.EventFriendRequestReceived)
				return
			}
			st.AddPendingRequest(req)
			notifier.Notify("New Friend Request",
				fmt.Sprintf("%s sent you a friend request", req.Requester.DisplayName))
		},
		models.EventFriendRequestResponse: func(data json.RawMessage) {
			var ev models.FriendRequestRespondedEvent
			if err := parseValid(data, &ev); err != nil {
				utils.LogError(err, models.EventFriendRequestResponse)
				return
			}
			if ev.Action == models.ActionAccept {
				notifier.Notify("Friend Request Accepted",
					fmt.Sprintf("%s accepted your friend request", ev.User.DisplayName))
			}
			st.ResolveSentRequest(ev.ID, ev.Action, ev.User)
		},
		models.EventFriendStatusChanged: func(data json.RawMessage) {
			var ev models.FriendStatusChangedEvent
			if err := parseValid(data, &ev); err != nil {
				utils.LogError(err, models.EventFriendStatusChanged)
				return
			}
			st.UpdateFriendStatus(ev.UserID, ev.Status)
		},
		models.EventMessageReceived: func(data json.RawMessage) {
			var msg models.Message
			if err := parse(data, &msg); err != nil {
				utils.LogError(err, models.EventMessageReceived)
				return
			}
			if err := models.ValidateMessage(&msg); err != nil {
				utils.LogError(err, models.EventMessageReceived)
				return
			}
			st.AppendMessage(msg, viewerID)
		},
		models.EventNewMessageNotice: func(data json.RawMessage) {
			var ev models.NewMessageNotificationEvent
			if err := parseValid(data, &ev); err != nil {
				utils.LogError(err, models.EventNewMessageNotice)
				return
			}
			notifier.Notify(
				fmt.Sprintf("New message from %s", ev.Sender.DisplayName),
				ev.Message.Content)
		},
		models.EventMessagesMarkedRead: func(data json.RawMessage) {
			var ev models.MessagesMarkedReadEvent
			if err := parseValid(data, &ev); err != nil {
				utils.LogError(err, models.EventMessagesMarkedRead)
				return
			}
			st.MarkMessagesRead(ev.SenderID, ev.ReceiverID)
		},
	}
	return r
}

// Dispatch routes one inbound event. It runs to completion before the read
// loop accepts the next frame; handlers never execute concurrently.
func (r *Router) Dispatch(event string, data json.RawMessage) {
	h, ok := r.handlers[event]
	if !ok {
		return
	}
	h(data)
}

type validator interface {
	Validate() error
}

func parse(data json.RawMessage, v interface{}) error {
	return utils.SafeJSONParse(data, v)
}

func parseValid(data json.RawMessage, v validator) error {
	if err := utils.SafeJSONParse(data, v); err != nil {
		return err
	}
	return v.Validate()
}
