package socket

import (
	"encoding/json"
	"log"
	"net/url"
	"sync"

	"chat-client/internal/models"
	"chat-client/internal/notify"
	"chat-client/internal/router"
	"chat-client/internal/store"
	"chat-client/internal/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// CookieSource returns the session's current Cookie header. The manager
// reads the access token out of it at connect time.
type CookieSource func() string

// Manager owns the websocket lifecycle: credential extraction, dialing,
// the single read loop that feeds the event router, and outbound command
// emission. There is no reconnection policy; when the transport drops,
// the caller decides whether to call Connect again.
type Manager struct {
	serverURL string
	cookies   CookieSource
	store     *store.Store
	notifier  notify.Notifier

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	viewerID  int
	router    *router.Router
}

func NewManager(serverURL string, cookies CookieSource, st *store.Store, notifier notify.Notifier) *Manager {
	return &Manager{
		serverURL: serverURL,
		cookies:   cookies,
		store:     st,
		notifier:  notifier,
	}
}

// Connect extracts the access token from the session cookies, dials the
// server with it as handshake auth, and starts the read loop. All failures
// are logged and swallowed; the connected flag stays false.
func (m *Manager) Connect() {
	token := AccessTokenFromCookies(m.cookies())
	if token == "" {
		log.Println("No access token found")
		return
	}

	viewerID, err := ViewerIDFromToken(token)
	if err != nil {
		utils.LogError(err, "ViewerIDFromToken")
		return
	}

	wsURL, err := websocketURL(m.serverURL, token)
	if err != nil {
		utils.LogError(err, "Connect")
		return
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		utils.LogError(err, "Dial")
		return
	}

	connID := uuid.New().String()

	m.mu.Lock()
	m.conn = conn
	m.connected = true
	m.viewerID = viewerID
	m.router = router.New(m.store, m.notifier, viewerID)
	m.mu.Unlock()

	log.Printf("Connected to server [%s]", connID)
	go m.readLoop(conn, connID)
}

// Disconnect tears down the transport if present. Safe to call when already
// disconnected.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return
	}
	_ = m.conn.Close()
	m.conn = nil
	m.connected = false
}

// Connected reports whether the transport is currently up.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// ViewerID returns the user id resolved from the access token at connect
// time, or 0 before the first successful connect.
func (m *Manager) ViewerID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewerID
}

// readLoop delivers inbound frames to the router one at a time; a frame is
// processed to completion before the next is read.
func (m *Manager) readLoop(conn *websocket.Conn, connID string) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				utils.LogError(err, "ReadMessage")
			}
			m.mu.Lock()
			if m.conn == conn {
				m.conn = nil
				m.connected = false
			}
			m.mu.Unlock()
			log.Printf("Disconnected from server [%s]", connID)
			return
		}

		var env models.Envelope
		if err := utils.SafeJSONParse(raw, &env); err != nil {
			utils.LogError(err, "JSON Parse")
			continue
		}
		m.router.Dispatch(env.Event, env.Data)
	}
}

// Outbound commands. Each is a silent no-op while disconnected: not queued,
// not retried. Confirmation only ever arrives via the inbound event path.

func (m *Manager) SendFriendRequest(email string) {
	m.emit(models.EventSendFriendRequest, models.SendFriendRequestCmd{Email: email})
}

func (m *Manager) RespondToFriendRequest(requestID int, action string) {
	m.emit(models.EventRespondFriendRequest, models.RespondFriendRequestCmd{
		RequestID: requestID,
		Action:    action,
	})
}

func (m *Manager) JoinChat(friendID int) {
	m.emit(models.EventJoinChat, models.JoinChatCmd{FriendID: friendID})
}

func (m *Manager) SendMessage(receiverID int, content string) {
	m.emit(models.EventSendMessage, models.SendMessageCmd{
		ReceiverID: receiverID,
		Content:    content,
	})
}

func (m *Manager) MarkMessagesRead(senderID int) {
	m.emit(models.EventMarkMessagesRead, models.MarkMessagesReadCmd{SenderID: senderID})
}

func (m *Manager) emit(event string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected || m.conn == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		utils.LogError(err, event)
		return
	}
	// gorilla conns do not allow concurrent writers; m.mu serializes them
	utils.LogError(m.conn.WriteJSON(models.Envelope{Event: event, Data: data}), event)
}

// websocketURL converts the configured http(s) base URL into the ws(s)
// endpoint with the token attached as handshake auth.
func websocketURL(serverURL, token string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	q := u.Query()
	q.Set(accessTokenCookie, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
