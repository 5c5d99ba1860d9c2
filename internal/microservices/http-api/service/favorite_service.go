package service

import (
	"context"
	"errors"

	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type FavoriteService interface {
	Create(ctx context.Context, p policy.Principal, adID int64) (*models.Favorite, error)
	List(ctx context.Context, p policy.Principal) ([]models.Favorite, error)
	Delete(ctx context.Context, p policy.Principal, id int64) error
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	adRepo       repository.AdvertisementRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, adRepo repository.AdvertisementRepository) FavoriteService {
	return &favoriteService{favoriteRepo: favoriteRepo, adRepo: adRepo}
}

func (s *favoriteService) Create(ctx context.Context, p policy.Principal, adID int64) (*models.Favorite, error) {
	if err := policy.Authorize(p, policy.CreateFavorite, nil); err != nil {
		return nil, err
	}
	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// the advertisement comes from the body, so this is bad input rather than a missing route
			return nil, NewValidationError("advertisement", "invalid pk - object does not exist")
		}
		return nil, err
	}

	fav := &models.Favorite{UserID: p.UserID, AdvertisementID: ad.ID}
	if err := s.favoriteRepo.CreateIfAbsent(ctx, fav); err != nil {
		if isDuplicateErr(err) {
			return nil, conflict("you have already favorited this advertisement")
		}
		return nil, err
	}
	fav.Advertisement = ad
	return fav, nil
}

func (s *favoriteService) List(ctx context.Context, p policy.Principal) ([]models.Favorite, error) {
	if err := policy.Authorize(p, policy.ListFavorites, nil); err != nil {
		return nil, err
	}
	return s.favoriteRepo.ListByUser(ctx, p.UserID)
}

// Delete only sees the caller's own favorites; another user's favorite is reported as missing
func (s *favoriteService) Delete(ctx context.Context, p policy.Principal, id int64) error {
	if err := policy.RequireIdentity(p); err != nil {
		return err
	}
	fav, err := s.favoriteRepo.FindByID(ctx, id)
	if err != nil {
		return translate(err, "favorite")
	}
	if err := policy.Authorize(p, policy.DeleteFavorite, &policy.Resource{OwnerID: fav.UserID}); err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			return notFound("favorite")
		}
		return err
	}
	return translate(s.favoriteRepo.Delete(ctx, id), "favorite")
}
