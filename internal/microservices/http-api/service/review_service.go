package service

import (
	"context"

	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"
)

type ReviewService interface {
	List(ctx context.Context, adID int64) ([]models.Review, error)
	Create(ctx context.Context, p policy.Principal, review *models.Review) error
	Delete(ctx context.Context, p policy.Principal, adID, id int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	adRepo     repository.AdvertisementRepository
	userRepo   repository.UserRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	adRepo repository.AdvertisementRepository,
	userRepo repository.UserRepository,
) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, adRepo: adRepo, userRepo: userRepo}
}

func (s *reviewService) List(ctx context.Context, adID int64) ([]models.Review, error) {
	if _, err := s.adRepo.FindByID(ctx, adID); err != nil {
		return nil, translate(err, "advertisement")
	}
	return s.reviewRepo.ListByAd(ctx, adID)
}

// Create allows one review per user per advertisement, independent of the rating
func (s *reviewService) Create(ctx context.Context, p policy.Principal, review *models.Review) error {
	if err := policy.Authorize(p, policy.CreateReview, nil); err != nil {
		return err
	}
	if review.Rating < 1 || review.Rating > 5 {
		return NewValidationError("rating", "ensure this value is between 1 and 5")
	}
	if _, err := s.adRepo.FindByID(ctx, review.AdvertisementID); err != nil {
		return translate(err, "advertisement")
	}

	review.UserID = p.UserID
	if err := s.reviewRepo.CreateIfAbsent(ctx, review); err != nil {
		if isDuplicateErr(err) {
			return conflict("you have already reviewed this advertisement")
		}
		return err
	}

	// the reviewer's name is part of the response
	if user, err := s.userRepo.FindByID(ctx, p.UserID); err == nil {
		review.User = user
	}
	return nil
}

func (s *reviewService) Delete(ctx context.Context, p policy.Principal, adID, id int64) error {
	if err := policy.RequireIdentity(p); err != nil {
		return err
	}
	review, err := s.reviewRepo.FindByID(ctx, adID, id)
	if err != nil {
		return translate(err, "review")
	}
	if err := policy.Authorize(p, policy.DeleteReview, &policy.Resource{OwnerID: review.UserID}); err != nil {
		return err
	}
	return translate(s.reviewRepo.Delete(ctx, id), "review")
}
