// Package events fans notifications out to other processes over NATS.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shohorbari/internal/microservices/http-api/models"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is followed by the lower-cased notification type,
// e.g. "shohorbari.notification.rent_request_accepted".
const SubjectPrefix = "shohorbari.notification."

type Publisher interface {
	PublishNotification(n models.Notification) error
	Close()
}

// NotificationEvent is the payload carried on the bus
type NotificationEvent struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"user_id"`
	Type            string `json:"type"`
	AdvertisementID int64  `json:"advertisement_id"`
	RentRequestID   *int64 `json:"rent_request_id,omitempty"`
	Title           string `json:"title"`
	Message         string `json:"message"`
	Timestamp       string `json:"timestamp"`
}

func Subject(notificationType string) string {
	return SubjectPrefix + strings.ToLower(notificationType)
}

func NewNotificationEvent(n models.Notification) NotificationEvent {
	ts := n.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return NotificationEvent{
		ID:              n.ID,
		UserID:          n.UserID,
		Type:            n.Type,
		AdvertisementID: n.AdvertisementID,
		RentRequestID:   n.RentRequestID,
		Title:           n.Title,
		Message:         n.Message,
		Timestamp:       ts.UTC().Format(time.RFC3339),
	}
}

// conn is the part of *nats.Conn the publisher needs
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

type natsPublisher struct {
	nc conn
}

// ConnectNATS dials the server with reconnects enabled
func ConnectNATS(url string, logger *slog.Logger) (Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("shohorbari-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("NATS connected", "url", nc.ConnectedUrl())
	return &natsPublisher{nc: nc}, nil
}

func (p *natsPublisher) PublishNotification(n models.Notification) error {
	payload, err := json.Marshal(NewNotificationEvent(n))
	if err != nil {
		return err
	}
	return p.nc.Publish(Subject(n.Type), payload)
}

func (p *natsPublisher) Close() {
	p.nc.Drain()
}

type nopPublisher struct{}

// Nop is used when NATS_URL is empty
func Nop() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishNotification(models.Notification) error { return nil }
func (nopPublisher) Close()                                        {}
