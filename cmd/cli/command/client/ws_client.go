package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
)

// ws_client.go = listens on the live notification socket of the API server.

type PushMessage struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
	Content      string        `json:"content,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

// NotificationsURL turns the API base URL into the websocket endpoint
func NotificationsURL(apiURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(apiURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid API URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported API URL scheme %q", u.Scheme)
	}
	u.Path += "/api/ws/notifications"
	return u.String(), nil
}

// WatchNotifications reads pushed messages until ctx is cancelled or the
// server closes the connection
func WatchNotifications(ctx context.Context, apiURL, token string, handle func(*PushMessage)) error {
	wsURL, err := NotificationsURL(apiURL)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Add("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: %s", resp.Status)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		var msg PushMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		handle(&msg)
	}
}

func PrintMessage(msg *PushMessage) {
	switch msg.Type {
	case "system":
		color.Yellow("🔔 %s", msg.Content)

	case "notification":
		if msg.Notification == nil {
			return
		}
		n := msg.Notification
		c := color.New(color.FgCyan)
		switch n.Type {
		case "RENT_REQUEST_ACCEPTED", "ADVERTISEMENT_APPROVED":
			c = color.New(color.FgGreen)
		case "RENT_REQUEST_CLOSED":
			c = color.New(color.FgHiBlack)
		}
		c.Printf("[%s] %s\n", msg.Timestamp.Local().Format("15:04:05"), n.Title)
		if n.Message != "" {
			fmt.Printf("    %s\n", n.Message)
		}
	}
}
