package repository

import (
	"context"

	"shohorbari/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	CreateIfAbsent(ctx context.Context, review *models.Review) error
	ListByAd(ctx context.Context, adID int64) ([]models.Review, error)
	FindByID(ctx context.Context, adID, id int64) (*models.Review, error)
	Delete(ctx context.Context, id int64) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// CreateIfAbsent allows one review per user per advertisement, whatever the rating
func (r *reviewRepository) CreateIfAbsent(ctx context.Context, review *models.Review) error {
	return guardedInsert(ctx, r.db, &models.Review{}, review,
		"user_id = ? AND advertisement_id = ?", review.UserID, review.AdvertisementID)
}

func (r *reviewRepository) ListByAd(ctx context.Context, adID int64) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("advertisement_id = ?", adID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, adID, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("id = ? AND advertisement_id = ?", id, adID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
