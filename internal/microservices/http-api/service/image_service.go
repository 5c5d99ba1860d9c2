package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"
	"shohorbari/internal/storage"

	"github.com/docker/go-units"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Upload is one image file as received from the client
type Upload struct {
	Body io.ReadSeeker
	Size int64
}

type ImageService interface {
	List(ctx context.Context, adID int64) ([]models.AdvertisementImage, error)
	Get(ctx context.Context, adID, id int64) (*models.AdvertisementImage, error)
	Create(ctx context.Context, p policy.Principal, adID int64, up Upload) (*models.AdvertisementImage, error)
	Replace(ctx context.Context, p policy.Principal, adID, id int64, up Upload) (*models.AdvertisementImage, error)
	Delete(ctx context.Context, p policy.Principal, adID, id int64) error
}

type imageService struct {
	imageRepo repository.ImageRepository
	adRepo    repository.AdvertisementRepository
	blobs     storage.BlobStore
	maxSize   int64
	logger    *slog.Logger
}

func NewImageService(
	imageRepo repository.ImageRepository,
	adRepo repository.AdvertisementRepository,
	blobs storage.BlobStore,
	maxSize int64,
	logger *slog.Logger,
) ImageService {
	return &imageService{
		imageRepo: imageRepo,
		adRepo:    adRepo,
		blobs:     blobs,
		maxSize:   maxSize,
		logger:    logger,
	}
}

func (s *imageService) List(ctx context.Context, adID int64) ([]models.AdvertisementImage, error) {
	if _, err := s.adRepo.FindByID(ctx, adID); err != nil {
		return nil, translate(err, "advertisement")
	}
	return s.imageRepo.ListByAd(ctx, adID)
}

func (s *imageService) Get(ctx context.Context, adID, id int64) (*models.AdvertisementImage, error) {
	img, err := s.imageRepo.FindByID(ctx, adID, id)
	if err != nil {
		return nil, translate(err, "image")
	}
	return img, nil
}

func (s *imageService) Create(ctx context.Context, p policy.Principal, adID int64, up Upload) (*models.AdvertisementImage, error) {
	if err := policy.Authorize(p, policy.CreateImage, nil); err != nil {
		return nil, err
	}
	if _, err := s.adRepo.FindByID(ctx, adID); err != nil {
		return nil, translate(err, "advertisement")
	}

	key, url, err := s.store(ctx, adID, up)
	if err != nil {
		return nil, err
	}

	img := &models.AdvertisementImage{AdvertisementID: adID, StorageKey: key, URL: url}
	if err := s.imageRepo.Create(ctx, img); err != nil {
		s.discard(ctx, key)
		return nil, err
	}
	return img, nil
}

func (s *imageService) Replace(ctx context.Context, p policy.Principal, adID, id int64, up Upload) (*models.AdvertisementImage, error) {
	if err := policy.Authorize(p, policy.UpdateImage, nil); err != nil {
		return nil, err
	}
	img, err := s.imageRepo.FindByID(ctx, adID, id)
	if err != nil {
		return nil, translate(err, "image")
	}

	key, url, err := s.store(ctx, adID, up)
	if err != nil {
		return nil, err
	}

	oldKey := img.StorageKey
	img.StorageKey, img.URL = key, url
	if err := s.imageRepo.Replace(ctx, img); err != nil {
		s.discard(ctx, key)
		return nil, err
	}
	s.discard(ctx, oldKey)
	return img, nil
}

func (s *imageService) Delete(ctx context.Context, p policy.Principal, adID, id int64) error {
	if err := policy.Authorize(p, policy.DeleteImage, nil); err != nil {
		return err
	}
	img, err := s.imageRepo.FindByID(ctx, adID, id)
	if err != nil {
		return translate(err, "image")
	}
	if err := s.imageRepo.Delete(ctx, adID, id); err != nil {
		return translate(err, "image")
	}
	s.discard(ctx, img.StorageKey)
	return nil
}

// store validates the upload and writes it to the blob store
func (s *imageService) store(ctx context.Context, adID int64, up Upload) (string, string, error) {
	if up.Body == nil || up.Size == 0 {
		return "", "", NewValidationError("image", "no file was submitted")
	}
	if up.Size > s.maxSize {
		return "", "", NewValidationError("image", fmt.Sprintf("file is larger than %s", units.HumanSize(float64(s.maxSize))))
	}

	mt, err := mimetype.DetectReader(up.Body)
	if err != nil {
		return "", "", fmt.Errorf("detect image type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", "", NewValidationError("image", "upload a valid image, got "+mt.String())
	}
	if _, err := up.Body.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("rewind upload: %w", err)
	}

	key := fmt.Sprintf("ads/%d/%s%s", adID, uuid.New().String(), mt.Extension())
	url, err := s.blobs.Put(ctx, key, up.Body, up.Size, mt.String())
	if err != nil {
		return "", "", fmt.Errorf("store image: %w", err)
	}
	return key, url, nil
}

func (s *imageService) discard(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete image blob", "key", key, "error", err)
	}
}
