package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shohorbari/internal/microservices/http-api/dto"
	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"
	"shohorbari/internal/storage"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type AdvertisementService interface {
	List(ctx context.Context, f repository.AdFilter) ([]models.Advertisement, int64, repository.AdFilter, error)
	Get(ctx context.Context, id int64) (*models.Advertisement, error)
	Create(ctx context.Context, p policy.Principal, ad *models.Advertisement) error
	Update(ctx context.Context, p policy.Principal, id int64, req *dto.UpdateAdvertisementRequest) (*models.Advertisement, error)
	Delete(ctx context.Context, p policy.Principal, id int64) error
	Approve(ctx context.Context, p policy.Principal, id int64) (*models.Advertisement, error)
	ListPending(ctx context.Context, p policy.Principal) ([]models.Advertisement, error)
}

type advertisementService struct {
	adRepo       repository.AdvertisementRepository
	categoryRepo repository.CategoryRepository
	imageRepo    repository.ImageRepository
	blobs        storage.BlobStore
	notifier     Notifier
	logger       *slog.Logger
}

func NewAdvertisementService(
	adRepo repository.AdvertisementRepository,
	categoryRepo repository.CategoryRepository,
	imageRepo repository.ImageRepository,
	blobs storage.BlobStore,
	notifier Notifier,
	logger *slog.Logger,
) AdvertisementService {
	return &advertisementService{
		adRepo:       adRepo,
		categoryRepo: categoryRepo,
		imageRepo:    imageRepo,
		blobs:        blobs,
		notifier:     orNop(notifier),
		logger:       logger,
	}
}

// NormalizeFilter clamps paging and drops an unknown ordering
func NormalizeFilter(f repository.AdFilter) repository.AdFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if !repository.ValidOrdering(f.Ordering) {
		f.Ordering = repository.DefaultOrdering
	}
	return f
}

// List is public. The filter actually applied is returned so the caller can echo paging.
func (s *advertisementService) List(ctx context.Context, f repository.AdFilter) ([]models.Advertisement, int64, repository.AdFilter, error) {
	f = NormalizeFilter(f)
	ads, total, err := s.adRepo.List(ctx, f)
	if err != nil {
		return nil, 0, f, err
	}
	return ads, total, f, nil
}

func (s *advertisementService) Get(ctx context.Context, id int64) (*models.Advertisement, error) {
	ad, err := s.adRepo.FindDetailed(ctx, id)
	if err != nil {
		return nil, translate(err, "advertisement")
	}
	return ad, nil
}

func (s *advertisementService) Create(ctx context.Context, p policy.Principal, ad *models.Advertisement) error {
	if err := policy.Authorize(p, policy.CreateAd, nil); err != nil {
		return err
	}
	if err := s.checkCategory(ctx, ad.CategoryID); err != nil {
		return err
	}
	ad.ID = 0
	ad.OwnerID = p.UserID
	ad.Approved = false
	return s.adRepo.Create(ctx, ad)
}

func (s *advertisementService) Update(ctx context.Context, p policy.Principal, id int64, req *dto.UpdateAdvertisementRequest) (*models.Advertisement, error) {
	ad, err := s.adRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "advertisement")
	}
	if err := policy.Authorize(p, policy.UpdateAd, &policy.Resource{OwnerID: ad.OwnerID}); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.Category.Value); err != nil {
		return nil, err
	}

	req.ApplyTo(ad)
	if err := s.adRepo.Update(ctx, ad); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the row first and the image blobs after; an orphaned blob is
// preferable to a row pointing at nothing.
func (s *advertisementService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	ad, err := s.adRepo.FindByID(ctx, id)
	if err != nil {
		return translate(err, "advertisement")
	}
	if err := policy.Authorize(p, policy.DeleteAd, &policy.Resource{OwnerID: ad.OwnerID}); err != nil {
		return err
	}

	images, err := s.imageRepo.ListByAd(ctx, id)
	if err != nil {
		return err
	}
	if err := s.adRepo.Delete(ctx, id); err != nil {
		return translate(err, "advertisement")
	}

	for _, img := range images {
		if err := s.blobs.Delete(ctx, img.StorageKey); err != nil {
			s.logger.Warn("failed to delete image blob", "advertisement_id", id, "key", img.StorageKey, "error", err)
		}
	}
	return nil
}

func (s *advertisementService) Approve(ctx context.Context, p policy.Principal, id int64) (*models.Advertisement, error) {
	if err := policy.Authorize(p, policy.ApproveAd, nil); err != nil {
		return nil, err
	}
	ad, err := s.adRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "advertisement")
	}
	if ad.Approved {
		return ad, nil
	}
	if err := s.adRepo.Approve(ctx, id); err != nil {
		return nil, translate(err, "advertisement")
	}
	ad.Approved = true

	s.notifier.Notify(models.Notification{
		UserID:          ad.OwnerID,
		Type:            models.NotifyAdApproved,
		AdvertisementID: ad.ID,
		Title:           "Advertisement approved",
		Message:         fmt.Sprintf("Your advertisement %q is now approved.", ad.Title),
	})
	return ad, nil
}

func (s *advertisementService) ListPending(ctx context.Context, p policy.Principal) ([]models.Advertisement, error) {
	if err := policy.Authorize(p, policy.ListPendingAds, nil); err != nil {
		return nil, err
	}
	return s.adRepo.ListPending(ctx)
}

func (s *advertisementService) checkCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("category", fmt.Sprintf("invalid pk %d - object does not exist", *id))
		}
		return err
	}
	return nil
}
