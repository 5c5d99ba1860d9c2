package events

import (
	"encoding/json"
	"testing"
	"time"

	"shohorbari/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	subject string
	data    []byte
	drained bool
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return nil
}

func (c *recordingConn) Drain() error {
	c.drained = true
	return nil
}

func TestPublishNotification(t *testing.T) {
	rc := &recordingConn{}
	p := &natsPublisher{nc: rc}
	reqID := int64(12)

	err := p.PublishNotification(models.Notification{
		ID:              4,
		UserID:          9,
		Type:            models.NotifyRequestAccepted,
		AdvertisementID: 3,
		RentRequestID:   &reqID,
		Title:           "Request accepted",
		CreatedAt:       time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "shohorbari.notification.rent_request_accepted", rc.subject)

	var ev NotificationEvent
	require.NoError(t, json.Unmarshal(rc.data, &ev))
	assert.Equal(t, int64(9), ev.UserID)
	assert.Equal(t, int64(12), *ev.RentRequestID)
	assert.Equal(t, "2024-01-15T10:00:00Z", ev.Timestamp)

	p.Close()
	assert.True(t, rc.drained)
}

func TestNopPublisher(t *testing.T) {
	p := Nop()
	assert.NoError(t, p.PublishNotification(models.Notification{Type: models.NotifyAdApproved}))
	p.Close()
}
