package repository

import (
	"context"

	"shohorbari/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ImageRepository interface {
	ListByAd(ctx context.Context, adID int64) ([]models.AdvertisementImage, error)
	FindByID(ctx context.Context, adID, id int64) (*models.AdvertisementImage, error)
	Create(ctx context.Context, image *models.AdvertisementImage) error
	Replace(ctx context.Context, image *models.AdvertisementImage) error
	Delete(ctx context.Context, adID, id int64) error
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) ListByAd(ctx context.Context, adID int64) ([]models.AdvertisementImage, error) {
	var images []models.AdvertisementImage
	if err := r.db.WithContext(ctx).
		Where("advertisement_id = ?", adID).
		Order("id ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// FindByID only matches an image that belongs to adID
func (r *imageRepository) FindByID(ctx context.Context, adID, id int64) (*models.AdvertisementImage, error) {
	var image models.AdvertisementImage
	if err := r.db.WithContext(ctx).
		Where("id = ? AND advertisement_id = ?", id, adID).
		First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) Create(ctx context.Context, image *models.AdvertisementImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// Replace points an existing image row at a new blob
func (r *imageRepository) Replace(ctx context.Context, image *models.AdvertisementImage) error {
	return r.db.WithContext(ctx).
		Model(image).
		Updates(map[string]any{"storage_key": image.StorageKey, "url": image.URL}).Error
}

func (r *imageRepository) Delete(ctx context.Context, adID, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND advertisement_id = ?", id, adID).
		Delete(&models.AdvertisementImage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
