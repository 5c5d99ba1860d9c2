package repository

import (
	"context"
	"fmt"
	"strings"

	"shohorbari/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// AdFilter narrows an advertisement listing. Zero values mean "no filter".
type AdFilter struct {
	CategoryID *int64
	Approved   *bool
	Search     string
	Ordering   string
	Page       int
	PageSize   int
}

// orderings maps the public ordering parameter to SQL. Anything else falls back to newest first.
var orderings = map[string]string{
	"created_at":  "created_at ASC, id ASC",
	"-created_at": "created_at DESC, id DESC",
	"price":       "price ASC, id ASC",
	"-price":      "price DESC, id DESC",
}

const DefaultOrdering = "-created_at"

// ValidOrdering reports whether the listing understands the ordering key
func ValidOrdering(o string) bool {
	_, ok := orderings[o]
	return ok
}

type AdvertisementRepository interface {
	List(ctx context.Context, f AdFilter) ([]models.Advertisement, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Advertisement, error)
	FindDetailed(ctx context.Context, id int64) (*models.Advertisement, error)
	Create(ctx context.Context, ad *models.Advertisement) error
	Update(ctx context.Context, ad *models.Advertisement) error
	Delete(ctx context.Context, id int64) error
	Approve(ctx context.Context, id int64) error
	ListPending(ctx context.Context) ([]models.Advertisement, error)
}

type advertisementRepository struct {
	db *gorm.DB
}

func NewAdvertisementRepository(db *gorm.DB) AdvertisementRepository {
	return &advertisementRepository{db: db}
}

func (r *advertisementRepository) List(ctx context.Context, f AdFilter) ([]models.Advertisement, int64, error) {
	var list []models.Advertisement
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Advertisement{})
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Approved != nil {
		q = q.Where("approved = ?", *f.Approved)
	}
	// every search token must appear in the title or the description
	for _, t := range strings.Fields(f.Search) {
		p := containsPattern(t)
		q = q.Where(`(title ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`, p, p)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count advertisements: %w", err)
	}

	order, ok := orderings[f.Ordering]
	if !ok {
		order = orderings[DefaultOrdering]
	}
	offset := (f.Page - 1) * f.PageSize

	if err := q.Preload("Images").
		Order(order).
		Limit(f.PageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list advertisements: %w", err)
	}
	return list, total, nil
}

// FindByID loads the bare row, enough for ownership checks
func (r *advertisementRepository) FindByID(ctx context.Context, id int64) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := r.db.WithContext(ctx).First(&ad, id).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// FindDetailed loads the advertisement with its images and reviews
func (r *advertisementRepository) FindDetailed(ctx context.Context, id int64) (*models.Advertisement, error) {
	var ad models.Advertisement
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Reviews.User").
		First(&ad, id).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *advertisementRepository) Create(ctx context.Context, ad *models.Advertisement) error {
	if err := r.db.WithContext(ctx).Create(ad).Error; err != nil {
		return fmt.Errorf("create advertisement: %w", err)
	}
	return nil
}

// Update writes the editable columns only. owner_id and approved never change here.
func (r *advertisementRepository) Update(ctx context.Context, ad *models.Advertisement) error {
	err := r.db.WithContext(ctx).
		Model(ad).
		Select("category_id", "title", "description", "price").
		Updates(ad).Error
	if err != nil {
		return fmt.Errorf("update advertisement: %w", err)
	}
	return nil
}

// Delete removes the advertisement. Images, reviews, requests and favorites cascade in the schema.
func (r *advertisementRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Advertisement{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete advertisement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *advertisementRepository) Approve(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&models.Advertisement{}).Where("id = ?", id).Update("approved", true)
	if res.Error != nil {
		return fmt.Errorf("approve advertisement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *advertisementRepository) ListPending(ctx context.Context) ([]models.Advertisement, error) {
	var list []models.Advertisement
	if err := r.db.WithContext(ctx).
		Where("approved = ?", false).
		Order("created_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list pending advertisements: %w", err)
	}
	return list, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern matches token literally anywhere in the column
func containsPattern(token string) string {
	return "%" + likeEscaper.Replace(token) + "%"
}
