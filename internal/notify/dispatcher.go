// Package notify delivers notifications off the request path: each one is
// stored, pushed to the recipient's live connections and published on the bus.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shohorbari/internal/events"
	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/repository"
)

const storeTimeout = 5 * time.Second

// Pusher reaches the recipient's open connections
type Pusher interface {
	PushNotification(n models.Notification)
}

type Dispatcher struct {
	pool      *WorkerPool
	repo      repository.NotificationRepository
	pusher    Pusher
	publisher events.Publisher
	logger    *slog.Logger
}

// NewDispatcher starts the worker pool. pusher and publisher may be nil.
func NewDispatcher(
	workers int,
	repo repository.NotificationRepository,
	pusher Pusher,
	publisher events.Publisher,
	logger *slog.Logger,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.Nop()
	}
	d := &Dispatcher{
		pool:      NewWorkerPool(workers, logger),
		repo:      repo,
		pusher:    pusher,
		publisher: publisher,
		logger:    logger,
	}
	d.pool.Start()
	return d
}

// Notify queues n for delivery. It only blocks while the queue is full.
func (d *Dispatcher) Notify(n models.Notification) {
	d.pool.Submit(func(ctx context.Context) error {
		return d.deliver(ctx, n)
	})
}

func (d *Dispatcher) deliver(ctx context.Context, n models.Notification) error {
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := d.repo.Create(storeCtx, &n); err != nil {
		return fmt.Errorf("store notification %s for user %d: %w", n.Type, n.UserID, err)
	}

	if d.pusher != nil {
		d.pusher.PushNotification(n)
	}
	if err := d.publisher.PublishNotification(n); err != nil {
		// stored and pushed already, the bus is best effort
		d.logger.Warn("publish notification failed", "type", n.Type, "user_id", n.UserID, "error", err)
	}
	return nil
}

// Close drains queued notifications then stops the workers
func (d *Dispatcher) Close() {
	d.pool.Wait()
}
