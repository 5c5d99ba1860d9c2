package repository

import (
	"context"
	"fmt"

	"shohorbari/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RentRequestRepository interface {
	// CreateIfAbsent inserts req unless the sender already has a request for the
	// advertisement, in any status. Returns ErrDuplicate in that case.
	CreateIfAbsent(ctx context.Context, req *models.RentRequest) error
	ListByAd(ctx context.Context, adID int64) ([]models.RentRequest, error)
	ListBySender(ctx context.Context, senderID int64) ([]models.RentRequest, error)
	FindByID(ctx context.Context, adID, id int64) (*models.RentRequest, error)
	// Accept marks the request accepted and closes every other request of the
	// advertisement in one transaction. closed holds the siblings whose status
	// actually changed.
	Accept(ctx context.Context, adID, id int64) (accepted *models.RentRequest, closed []models.RentRequest, err error)
}

type rentRequestRepository struct {
	db *gorm.DB
}

func NewRentRequestRepository(db *gorm.DB) RentRequestRepository {
	return &rentRequestRepository{db: db}
}

func (r *rentRequestRepository) CreateIfAbsent(ctx context.Context, req *models.RentRequest) error {
	return guardedInsert(ctx, r.db, &models.RentRequest{}, req,
		"sender_id = ? AND advertisement_id = ?", req.SenderID, req.AdvertisementID)
}

func (r *rentRequestRepository) ListByAd(ctx context.Context, adID int64) ([]models.RentRequest, error) {
	var list []models.RentRequest
	if err := r.db.WithContext(ctx).
		Where("advertisement_id = ?", adID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list rent requests: %w", err)
	}
	return list, nil
}

func (r *rentRequestRepository) ListBySender(ctx context.Context, senderID int64) ([]models.RentRequest, error) {
	var list []models.RentRequest
	if err := r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list sent rent requests: %w", err)
	}
	return list, nil
}

func (r *rentRequestRepository) FindByID(ctx context.Context, adID, id int64) (*models.RentRequest, error) {
	var req models.RentRequest
	if err := r.db.WithContext(ctx).
		Where("id = ? AND advertisement_id = ?", id, adID).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *rentRequestRepository) Accept(ctx context.Context, adID, id int64) (*models.RentRequest, []models.RentRequest, error) {
	var accepted models.RentRequest
	var closed []models.RentRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// serialize concurrent accepts on the same advertisement
		var ad models.Advertisement
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&ad, adID).Error; err != nil {
			return err
		}

		if err := tx.Where("id = ? AND advertisement_id = ?", id, adID).First(&accepted).Error; err != nil {
			return err
		}

		if err := tx.Where("advertisement_id = ? AND id <> ? AND status <> ?", adID, id, models.StatusClosed).
			Find(&closed).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.RentRequest{}).
			Where("advertisement_id = ? AND id <> ?", adID, id).
			Update("status", models.StatusClosed).Error; err != nil {
			return fmt.Errorf("close sibling requests: %w", err)
		}

		if err := tx.Model(&accepted).Update("status", models.StatusAccepted).Error; err != nil {
			return fmt.Errorf("accept request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for i := range closed {
		closed[i].Status = models.StatusClosed
	}
	return &accepted, closed, nil
}
