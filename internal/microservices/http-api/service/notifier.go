package service

import "shohorbari/internal/microservices/http-api/models"

// Notifier hands a notification off for delivery. Implementations must not
// block on the recipient; callers invoke it after their transaction commits.
type Notifier interface {
	Notify(n models.Notification)
}

type nopNotifier struct{}

func (nopNotifier) Notify(models.Notification) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
