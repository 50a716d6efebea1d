package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chat-client/internal/models"
)

// Client is the request/response side of the app: login plus the bulk
// fetches that seed the local state mirror before the socket connects.
// The cookie jar holds the session tokens set by the login response and
// doubles as the cookie store the socket manager reads.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
	}, nil
}

// CookieHeader renders the session cookies as a Cookie header value, the
// shape socket.AccessTokenFromCookies expects.
func (c *Client) CookieHeader() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	var parts []string
	for _, ck := range c.http.Jar.Cookies(u) {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

// Login authenticates and lets the server set the session cookies.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.post(ctx, "/login", body, nil)
}

// Friends API

func (c *Client) Friends(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.get(ctx, "/friends/", &out)
	return out, err
}

func (c *Client) PendingRequests(ctx context.Context) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	err := c.get(ctx, "/friends/requests/pending", &out)
	return out, err
}

func (c *Client) SentRequests(ctx context.Context) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	err := c.get(ctx, "/friends/requests/sent", &out)
	return out, err
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var out []models.User
	err := c.get(ctx, "/friends/search?q="+url.QueryEscape(query), &out)
	return out, err
}

func (c *Client) SendFriendRequest(ctx context.Context, email string) error {
	return c.post(ctx, "/friends/request", map[string]string{"email": email}, nil)
}

func (c *Client) RespondToFriendRequest(ctx context.Context, requestID int, action string) error {
	body := map[string]interface{}{"request_id": requestID, "action": action}
	return c.post(ctx, "/friends/respond", body, nil)
}

// Chat API

func (c *Client) ChatHistory(ctx context.Context, friendID, limit int) ([]models.Message, error) {
	var out []models.Message
	path := fmt.Sprintf("/chat/history/%d?limit=%d", friendID, limit)
	err := c.get(ctx, path, &out)
	return out, err
}

func (c *Client) Conversations(ctx context.Context) ([]models.Conversation, error) {
	var out []models.Conversation
	err := c.get(ctx, "/chat/conversations", &out)
	return out, err
}

func (c *Client) SendMessage(ctx context.Context, receiverID int, content string) (models.Message, error) {
	var out models.Message
	body := map[string]interface{}{"receiver_id": receiverID, "content": content}
	err := c.post(ctx, "/chat/send", body, &out)
	return out, err
}

func (c *Client) MarkMessagesRead(ctx context.Context, senderID int) error {
	return c.post(ctx, "/chat/read/"+strconv.Itoa(senderID), nil, nil)
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.get(ctx, "/chat/unread-count", &out)
	return out.Count, err
}

// Notifications API

func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	err := c.get(ctx, "/notifications/", &out)
	return out, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, notificationID int) error {
	return c.post(ctx, fmt.Sprintf("/notifications/%d/read", notificationID), nil, nil)
}

func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.get(ctx, "/notifications/unread-count", &out)
	return out.Count, err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
