package models

import "testing"

func TestFriendRequestRespondedValidate(t *testing.T) {
	ev := FriendRequestRespondedEvent{ID: 1, Action: ActionAccept, User: &User{ID: 2}}
	if err := ev.Validate(); err != nil {
		t.Fatalf("valid accept rejected: %v", err)
	}

	cases := []FriendRequestRespondedEvent{
		{ID: 0, Action: ActionDecline},
		{ID: 1, Action: "ignore"},
		{ID: 1, Action: ActionAccept, User: nil},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("expected error for %+v", c)
		}
	}
}

func TestFriendStatusChangedValidate(t *testing.T) {
	ev := FriendStatusChangedEvent{UserID: 5, Status: StatusOffline}
	if err := ev.Validate(); err != nil {
		t.Fatalf("valid status rejected: %v", err)
	}
	ev.Status = "away"
	if err := ev.Validate(); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestValidateMessage(t *testing.T) {
	m := Message{ID: 1, SenderID: 5, ReceiverID: 9}
	if err := ValidateMessage(&m); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}
	for _, bad := range []Message{
		{ID: 0, SenderID: 5, ReceiverID: 9},
		{ID: 1, SenderID: 0, ReceiverID: 9},
		{ID: 1, SenderID: 5, ReceiverID: 0},
	} {
		if err := ValidateMessage(&bad); err == nil {
			t.Fatalf("expected error for %+v", bad)
		}
	}
}
