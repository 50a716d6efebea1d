package socket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chat-client/internal/models"
	"chat-client/internal/notify"
	"chat-client/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// testServer runs handler on the upgraded connection of each /ws request and
// records the access_token handshake query.
func testServer(t *testing.T, handler func(*websocket.Conn)) (*httptest.Server, chan string) {
	t.Helper()
	tokens := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		tokens <- r.URL.Query().Get("access_token")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)
	return srv, tokens
}

func viewerToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  9,
		"username": "viewer",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func envelope(t *testing.T, event string, payload interface{}) models.Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return models.Envelope{Event: event, Data: data}
}

func TestConnectWithoutCredential(t *testing.T) {
	srv, tokens := testServer(t, func(conn *websocket.Conn) {})
	st := store.New()

	m := NewManager(srv.URL, func() string { return "refresh_token=r1" }, st, notify.Discard{})
	m.Connect()

	if m.Connected() {
		t.Fatalf("connected without a credential")
	}
	select {
	case <-tokens:
		t.Fatalf("a connection attempt reached the server")
	default:
	}
}

func TestConnectSendsTokenInHandshake(t *testing.T) {
	block := make(chan struct{})
	srv, tokens := testServer(t, func(conn *websocket.Conn) { <-block })
	defer close(block)
	st := store.New()
	token := viewerToken(t)

	m := NewManager(srv.URL, func() string { return "access_token=" + token }, st, notify.Discard{})
	m.Connect()
	defer m.Disconnect()

	if !m.Connected() {
		t.Fatalf("not connected")
	}
	if m.ViewerID() != 9 {
		t.Fatalf("viewer id: got %d, want 9", m.ViewerID())
	}
	select {
	case got := <-tokens:
		if got != token {
			t.Fatalf("handshake token: got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no connection reached the server")
	}
}

func TestInboundEventReachesStore(t *testing.T) {
	block := make(chan struct{})
	srv, _ := testServer(t, func(conn *websocket.Conn) {
		msg := models.Message{
			ID: 1, SenderID: 5, ReceiverID: 9, Content: "hi",
			Sender: models.User{ID: 5, DisplayName: "alice"},
		}
		if err := conn.WriteJSON(envelope(t, models.EventMessageReceived, msg)); err != nil {
			t.Errorf("write: %v", err)
		}
		<-block
	})
	defer close(block)

	st := store.New()
	stored := make(chan struct{}, 1)
	st.Subscribe(store.TopicMessages, func() { stored <- struct{}{} })

	m := NewManager(srv.URL, func() string { return "access_token=" + viewerToken(t) }, st, notify.Discard{})
	m.Connect()
	defer m.Disconnect()

	select {
	case <-stored:
	case <-time.After(2 * time.Second):
		t.Fatalf("message never reached the store")
	}

	msgs := st.MessagesFor(5, 9)
	if len(msgs) != 1 || msgs[0].Content != "hi" {
		t.Fatalf("stored messages: %+v", msgs)
	}
}

func TestOutboundCommandShape(t *testing.T) {
	frames := make(chan models.Envelope, 1)
	srv, _ := testServer(t, func(conn *websocket.Conn) {
		var env models.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		frames <- env
	})

	st := store.New()
	m := NewManager(srv.URL, func() string { return "access_token=" + viewerToken(t) }, st, notify.Discard{})
	m.Connect()
	defer m.Disconnect()

	m.SendMessage(7, "hi")

	select {
	case env := <-frames:
		if env.Event != models.EventSendMessage {
			t.Fatalf("event: got %q", env.Event)
		}
		var cmd models.SendMessageCmd
		if err := json.Unmarshal(env.Data, &cmd); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if cmd.ReceiverID != 7 || cmd.Content != "hi" {
			t.Fatalf("payload: %+v", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("command never reached the server")
	}
}

func TestCommandsDropSilentlyWhenDisconnected(t *testing.T) {
	st := store.New()
	m := NewManager("http://127.0.0.1:1", func() string { return "" }, st, notify.Discard{})

	// none of these may panic or mutate anything
	m.SendFriendRequest("a@b.c")
	m.RespondToFriendRequest(1, models.ActionAccept)
	m.JoinChat(7)
	m.SendMessage(7, "hi")
	m.MarkMessagesRead(5)

	if len(st.MessagesFor(7, 9)) != 0 {
		t.Fatalf("disconnected command mutated the store")
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	block := make(chan struct{})
	srv, _ := testServer(t, func(conn *websocket.Conn) { <-block })
	defer close(block)

	st := store.New()
	m := NewManager(srv.URL, func() string { return "access_token=" + viewerToken(t) }, st, notify.Discard{})
	m.Connect()

	m.Disconnect()
	if m.Connected() {
		t.Fatalf("still connected after Disconnect")
	}
	m.Disconnect() // no-op
	if m.Connected() {
		t.Fatalf("second Disconnect changed state")
	}
}

func TestWebsocketURL(t *testing.T) {
	got, err := websocketURL("https://chat.example.com", "tok")
	if err != nil {
		t.Fatalf("websocketURL: %v", err)
	}
	if got != "wss://chat.example.com/ws?access_token=tok" {
		t.Fatalf("url: %q", got)
	}

	got, err = websocketURL("http://localhost:8000", "tok")
	if err != nil {
		t.Fatalf("websocketURL: %v", err)
	}
	if got != "ws://localhost:8000/ws?access_token=tok" {
		t.Fatalf("url: %q", got)
	}
}
