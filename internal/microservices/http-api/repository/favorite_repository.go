package repository

import (
	"context"

	"shohorbari/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type FavoriteRepository interface {
	CreateIfAbsent(ctx context.Context, fav *models.Favorite) error
	ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error)
	FindByID(ctx context.Context, id int64) (*models.Favorite, error)
	Delete(ctx context.Context, id int64) error
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// CreateIfAbsent returns ErrDuplicate when the user already favorited the advertisement
func (r *favoriteRepository) CreateIfAbsent(ctx context.Context, fav *models.Favorite) error {
	return guardedInsert(ctx, r.db, &models.Favorite{}, fav,
		"user_id = ? AND advertisement_id = ?", fav.UserID, fav.AdvertisementID)
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	var list []models.Favorite
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Advertisement").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *favoriteRepository) FindByID(ctx context.Context, id int64) (*models.Favorite, error) {
	var fav models.Favorite
	if err := r.db.WithContext(ctx).First(&fav, id).Error; err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Favorite{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
