package service

import (
	"context"

	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"
)

type NotificationService interface {
	GetUnread(ctx context.Context, p policy.Principal) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, p policy.Principal, notificationID int64) error
	MarkAllAsRead(ctx context.Context, p policy.Principal) (int64, error)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) GetUnread(ctx context.Context, p policy.Principal) ([]models.Notification, error) {
	if err := policy.Authorize(p, policy.ListNotifications, nil); err != nil {
		return nil, err
	}
	return s.repo.GetUnreadByUser(ctx, p.UserID)
}

// MarkAsRead reports not found for notifications addressed to someone else
func (s *notificationService) MarkAsRead(ctx context.Context, p policy.Principal, notificationID int64) error {
	if err := policy.Authorize(p, policy.ReadNotifications, nil); err != nil {
		return err
	}
	return translate(s.repo.MarkAsRead(ctx, p.UserID, notificationID), "notification")
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, p policy.Principal) (int64, error) {
	if err := policy.Authorize(p, policy.ReadNotifications, nil); err != nil {
		return 0, err
	}
	return s.repo.MarkAllAsRead(ctx, p.UserID)
}
