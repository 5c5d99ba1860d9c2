package websocket

import (
	"context"
	"log/slog"

	"shohorbari/internal/microservices/http-api/models"
)

// Central hub tracking the live connections of every user.
// Only the Run goroutine touches the client map; everyone else talks to it
// through channels.

type envelope struct {
	userID  int64
	payload []byte
}

type countQuery struct {
	userID int64
	reply  chan int
}

type Hub struct {
	register chan *Client
	leave    chan *Client
	send     chan envelope
	count    chan countQuery
	done     chan struct{}
	clients  map[int64]map[*Client]struct{}
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register: make(chan *Client),
		leave:    make(chan *Client),
		send:     make(chan envelope, 256),
		count:    make(chan countQuery),
		done:     make(chan struct{}),
		clients:  make(map[int64]map[*Client]struct{}),
		logger:   logger,
	}
}

// Run owns the client map until ctx is cancelled, then closes every connection
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			set, ok := h.clients[c.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[c.UserID] = set
			}
			set[c] = struct{}{}
			h.logger.Debug("websocket client connected", "client_id", c.ID, "user_id", c.UserID)

		case c := <-h.leave:
			h.remove(c)

		case env := <-h.send:
			for c := range h.clients[env.userID] {
				select {
				case c.SendChannel <- env.payload:
				default:
					// slow consumer, drop the connection rather than stall the hub
					h.logger.Warn("websocket client too slow, disconnecting", "client_id", c.ID, "user_id", c.UserID)
					h.remove(c)
				}
			}

		case q := <-h.count:
			q.reply <- len(h.clients[q.userID])

		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					close(c.SendChannel)
				}
			}
			h.clients = map[int64]map[*Client]struct{}{}
			return
		}
	}
}

// Register hands a new connection to the hub
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.leave <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(c *Client) {
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.SendChannel)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	h.logger.Debug("websocket client disconnected", "client_id", c.ID, "user_id", c.UserID)
}

// SendToUser queues payload for every connection of userID. It never blocks:
// when the hub is saturated or stopped the message is dropped.
func (h *Hub) SendToUser(userID int64, payload []byte) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.send <- envelope{userID: userID, payload: payload}:
		return true
	default:
		h.logger.Warn("websocket hub saturated, dropping message", "user_id", userID)
		return false
	}
}

// PushNotification delivers n to its recipient if they are connected
func (h *Hub) PushNotification(n models.Notification) {
	data, err := NewNotificationMessage(n).ToJSON()
	if err != nil {
		return
	}
	h.SendToUser(n.UserID, data)
}

// Online returns the number of live connections of userID
func (h *Hub) Online(userID int64) int {
	reply := make(chan int, 1)
	select {
	case h.count <- countQuery{userID: userID, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}
