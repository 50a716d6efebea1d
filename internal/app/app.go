package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-client/internal/api"
	"chat-client/internal/notify"
	"chat-client/internal/socket"
	"chat-client/internal/store"
	"chat-client/internal/utils"
)

func Run() {
	// Load Env
	if err := utils.LoadEnv(); err != nil {
		log.Println("Warning: .env file not found")
	}

	serverURL := utils.GetEnv("SERVER_URL", "http://localhost:8000")
	email := utils.GetEnv("EMAIL", "")
	password := utils.GetEnv("PASSWORD", "")
	historyLimit := utils.GetEnvInt("HISTORY_LIMIT", 50)

	client, err := api.NewClient(serverURL)
	if err != nil {
		log.Fatalf("Failed to create api client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.Login(ctx, email, password); err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	// The bulk fetch needs the viewer id to key message history; it comes
	// from the access token the login response just set.
	token := socket.AccessTokenFromCookies(client.CookieHeader())
	viewerID, err := socket.ViewerIDFromToken(token)
	if err != nil {
		log.Fatalf("Failed to resolve viewer id: %v", err)
	}

	st := store.New()
	notifier := notify.NewDesktop(utils.GetEnvBool("DESKTOP_NOTIFICATIONS", true))

	seed(ctx, client, st, viewerID, historyLimit)

	sock := socket.NewManager(serverURL, client.CookieHeader, st, notifier)
	sock.Connect()

	// Graceful Shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Block until signal
	log.Println("Disconnecting...")
	sock.Disconnect()
	log.Println("Client shutdown complete")
}

// seed performs the initial bulk fetch so the mirror starts consistent with
// the server before any event arrives. Every step is best-effort; a failed
// fetch leaves that mapping empty.
func seed(ctx context.Context, client *api.Client, st *store.Store, viewerID, historyLimit int) {
	if friends, err := client.Friends(ctx); err != nil {
		utils.LogError(err, "Friends")
	} else {
		st.SetFriends(friends)
	}

	if pending, err := client.PendingRequests(ctx); err != nil {
		utils.LogError(err, "PendingRequests")
	} else {
		st.SetPendingRequests(pending)
	}

	if sent, err := client.SentRequests(ctx); err != nil {
		utils.LogError(err, "SentRequests")
	} else {
		st.SetSentRequests(sent)
	}

	convs, err := client.Conversations(ctx)
	if err != nil {
		utils.LogError(err, "Conversations")
		return
	}
	st.SetConversations(convs)

	for _, conv := range convs {
		history, err := client.ChatHistory(ctx, conv.Friend.ID, historyLimit)
		if err != nil {
			utils.LogError(err, "ChatHistory")
			continue
		}
		st.SetHistory(conv.Friend.ID, viewerID, history)
	}

	log.Printf("Loaded %d friends, %d conversations", len(st.Friends()), len(convs))
}
