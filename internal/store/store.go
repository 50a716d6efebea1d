package store

import (
	"sync"

	"chat-client/internal/models"
)

// Topic identifies one of the store's mappings for change subscriptions.
type Topic string

const (
	TopicMessages        Topic = "messages"
	TopicFriends         Topic = "friends"
	TopicConversations   Topic = "conversations"
	TopicPendingRequests Topic = "pending_requests"
	TopicSentRequests    Topic = "sent_requests"
)

// Store holds the local mirror of the viewer's chat state. Mutations are
// driven by inbound events on a single read loop; readers may be on other
// goroutines, so access is guarded. Watchers registered via Subscribe are
// invoked after the mutation completes, outside the lock.
type Store struct {
	mu            sync.RWMutex
	messages      map[string][]models.Message
	friends       []models.User
	conversations []models.Conversation
	pending       []models.FriendRequest
	sent          []models.FriendRequest

	watcherMu sync.RWMutex
	watchers  map[Topic][]func()
}

func New() *Store {
	return &Store{
		messages: make(map[string][]models.Message),
		watchers: make(map[Topic][]func()),
	}
}

// Subscribe registers fn to run after every mutation of the given topic.
// Watchers run synchronously on the mutating goroutine and must not call
// back into the store's mutation methods.
func (s *Store) Subscribe(topic Topic, fn func()) {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	s.watchers[topic] = append(s.watchers[topic], fn)
}

func (s *Store) publish(topics ...Topic) {
	s.watcherMu.RLock()
	defer s.watcherMu.RUnlock()
	for _, t := range topics {
		for _, fn := range s.watchers[t] {
			fn()
		}
	}
}

// AppendMessage inserts a message into its conversation's sequence, creating
// the sequence if absent, then applies the conversation-update rule. Arrival
// order is preserved; no dedup by id is performed.
func (s *Store) AppendMessage(m models.Message, viewerID int) {
	s.mu.Lock()
	key := ChatKey(m.SenderID, m.ReceiverID)
	s.messages[key] = append(s.messages[key], m)
	updated := s.updateConversation(m, viewerID)
	s.mu.Unlock()

	if updated {
		s.publish(TopicMessages, TopicConversations)
	} else {
		s.publish(TopicMessages)
	}
}

// updateConversation sets the last message on the counterpart's conversation,
// bumps the unread count for inbound unread messages, and moves the entry to
// the front of the list. Conversations are pre-seeded by the bulk fetch; an
// unknown counterpart is a no-op. Caller holds the lock.
func (s *Store) updateConversation(m models.Message, viewerID int) bool {
	friendID := m.SenderID
	if m.SenderID == viewerID {
		friendID = m.ReceiverID
	}

	for i := range s.conversations {
		if s.conversations[i].Friend.ID != friendID {
			continue
		}
		msg := m
		s.conversations[i].LastMessage = &msg
		if m.SenderID != viewerID && !m.IsRead {
			s.conversations[i].UnreadCount++
		}
		conv := s.conversations[i]
		s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
		s.conversations = append([]models.Conversation{conv}, s.conversations...)
		return true
	}
	return false
}

// MarkMessagesRead flips the read flag on every stored message from senderID
// in the (senderID, receiverID) conversation. The conversation's unread count
// is deliberately left alone; it only changes via the message-arrival rule.
func (s *Store) MarkMessagesRead(senderID, receiverID int) {
	s.mu.Lock()
	key := ChatKey(senderID, receiverID)
	changed := false
	msgs := s.messages[key]
	for i := range msgs {
		if msgs[i].SenderID == senderID && !msgs[i].IsRead {
			msgs[i].IsRead = true
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.publish(TopicMessages)
	}
}

// AddFriend appends a user to the friends list.
func (s *Store) AddFriend(u models.User) {
	s.mu.Lock()
	s.friends = append(s.friends, u)
	s.mu.Unlock()
	s.publish(TopicFriends)
}

// AddPendingRequest appends an incoming friend request.
func (s *Store) AddPendingRequest(r models.FriendRequest) {
	s.mu.Lock()
	s.pending = append(s.pending, r)
	s.mu.Unlock()
	s.publish(TopicPendingRequests)
}

// RemoveSentRequest drops the sent request with the given id, if present.
func (s *Store) RemoveSentRequest(id int) {
	s.mu.Lock()
	removed := s.removeSent(id)
	s.mu.Unlock()
	if removed {
		s.publish(TopicSentRequests)
	}
}

// ResolveSentRequest applies the outcome of a request the viewer sent. On
// accept the new friend is added and the sent entry removed as one
// transition; watchers never observe the intermediate state. On decline only
// the sent entry is removed.
func (s *Store) ResolveSentRequest(id int, action string, friend *models.User) {
	s.mu.Lock()
	accepted := action == models.ActionAccept && friend != nil
	if accepted {
		s.friends = append(s.friends, *friend)
	}
	removed := s.removeSent(id)
	s.mu.Unlock()

	switch {
	case accepted && removed:
		s.publish(TopicFriends, TopicSentRequests)
	case accepted:
		s.publish(TopicFriends)
	case removed:
		s.publish(TopicSentRequests)
	}
}

// removeSent filters the sent list in place. Caller holds the lock.
func (s *Store) removeSent(id int) bool {
	for i := range s.sent {
		if s.sent[i].ID == id {
			s.sent = append(s.sent[:i], s.sent[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateFriendStatus mutates the matching friend's presence in place. A
// status event for a user who is not a friend is ignored.
func (s *Store) UpdateFriendStatus(userID int, status string) {
	s.mu.Lock()
	changed := false
	for i := range s.friends {
		if s.friends[i].ID == userID {
			s.friends[i].Status = status
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.publish(TopicFriends)
	}
}

// MessagesFor returns a copy of the message sequence for the viewer's
// conversation with friendID, oldest first. Never mutates.
func (s *Store) MessagesFor(friendID, viewerID int) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[ChatKey(friendID, viewerID)]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Friends returns a copy of the friends list.
func (s *Store) Friends() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.friends))
	copy(out, s.friends)
	return out
}

// Conversations returns a copy of the conversation list, most recent first.
func (s *Store) Conversations() []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// PendingRequests returns a copy of the incoming request list.
func (s *Store) PendingRequests() []models.FriendRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.FriendRequest, len(s.pending))
	copy(out, s.pending)
	return out
}

// SentRequests returns a copy of the outgoing request list.
func (s *Store) SentRequests() []models.FriendRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.FriendRequest, len(s.sent))
	copy(out, s.sent)
	return out
}

// Seeding from the initial bulk fetch.

func (s *Store) SetFriends(friends []models.User) {
	s.mu.Lock()
	s.friends = append([]models.User(nil), friends...)
	s.mu.Unlock()
	s.publish(TopicFriends)
}

func (s *Store) SetConversations(convs []models.Conversation) {
	s.mu.Lock()
	s.conversations = append([]models.Conversation(nil), convs...)
	s.mu.Unlock()
	s.publish(TopicConversations)
}

func (s *Store) SetPendingRequests(reqs []models.FriendRequest) {
	s.mu.Lock()
	s.pending = append([]models.FriendRequest(nil), reqs...)
	s.mu.Unlock()
	s.publish(TopicPendingRequests)
}

func (s *Store) SetSentRequests(reqs []models.FriendRequest) {
	s.mu.Lock()
	s.sent = append([]models.FriendRequest(nil), reqs...)
	s.mu.Unlock()
	s.publish(TopicSentRequests)
}

// SetHistory replaces the message sequence for the viewer's conversation
// with friendID with fetched history.
func (s *Store) SetHistory(friendID, viewerID int, msgs []models.Message) {
	s.mu.Lock()
	s.messages[ChatKey(friendID, viewerID)] = append([]models.Message(nil), msgs...)
	s.mu.Unlock()
	s.publish(TopicMessages)
}
