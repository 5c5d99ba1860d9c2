package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens map[string]int64

func (s stubTokens) ValidateToken(token string) (*service.Claims, error) {
	id, ok := s[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &service.Claims{UserID: id, Role: "user", Type: "access"}, nil
}

func startServer(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", WSHandler(hub, stubTokens{"alice": 5, "bob": 9}))
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := MessageFromJSON(data)
	require.NoError(t, err)
	return msg
}

func TestWSHandler_RejectsMissingAndBadTokens(t *testing.T) {
	_, url := startServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=mallory", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_PushesOnlyToRecipient(t *testing.T) {
	hub, url := startServer(t)

	header := http.Header{}
	header.Set("Authorization", "Bearer alice")
	alice, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer alice.Close()

	bob, _, err := websocket.DefaultDialer.Dial(url+"?token=bob", nil)
	require.NoError(t, err)
	defer bob.Close()

	assert.Equal(t, TypeSystem, readMessage(t, alice).Type)
	assert.Equal(t, TypeSystem, readMessage(t, bob).Type)
	require.Eventually(t, func() bool { return hub.Online(5) == 1 && hub.Online(9) == 1 }, time.Second, 10*time.Millisecond)

	hub.PushNotification(models.Notification{ID: 1, UserID: 5, Type: models.NotifyRequestAccepted, AdvertisementID: 3})

	msg := readMessage(t, alice)
	assert.Equal(t, TypeNotification, msg.Type)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, models.NotifyRequestAccepted, msg.Notification.Type)

	// bob has nothing waiting
	require.NoError(t, bob.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err = bob.ReadMessage()
	assert.Error(t, err)
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, url := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=alice", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Online(5) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Online(5) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_SendAfterStopIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.SendToUser(1, []byte("x")))
	assert.Equal(t, 0, hub.Online(1))
	assert.False(t, hub.Register(&Client{UserID: 1, SendChannel: make(chan []byte, 1)}))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken(""))
}
