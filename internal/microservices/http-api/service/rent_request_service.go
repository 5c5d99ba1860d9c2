package service

import (
	"context"
	"fmt"

	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"
)

type RentRequestService interface {
	Create(ctx context.Context, p policy.Principal, adID int64, message string) (*models.RentRequest, error)
	List(ctx context.Context, p policy.Principal, adID int64) ([]models.RentRequest, error)
	Get(ctx context.Context, p policy.Principal, adID, id int64) (*models.RentRequest, error)
	Accept(ctx context.Context, p policy.Principal, adID, id int64) (*models.RentRequest, error)
	ListMine(ctx context.Context, p policy.Principal) ([]models.RentRequest, error)
}

type rentRequestService struct {
	requestRepo repository.RentRequestRepository
	adRepo      repository.AdvertisementRepository
	notifier    Notifier
}

func NewRentRequestService(
	requestRepo repository.RentRequestRepository,
	adRepo repository.AdvertisementRepository,
	notifier Notifier,
) RentRequestService {
	return &rentRequestService{
		requestRepo: requestRepo,
		adRepo:      adRepo,
		notifier:    orNop(notifier),
	}
}

// Create allows one request per sender per advertisement, ever. A closed
// request still blocks a new one.
func (s *rentRequestService) Create(ctx context.Context, p policy.Principal, adID int64, message string) (*models.RentRequest, error) {
	if err := policy.Authorize(p, policy.CreateRentRequest, nil); err != nil {
		return nil, err
	}
	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		return nil, translate(err, "advertisement")
	}

	req := &models.RentRequest{
		AdvertisementID: ad.ID,
		SenderID:        p.UserID,
		Status:          models.StatusPending,
		Message:         message,
	}
	if err := s.requestRepo.CreateIfAbsent(ctx, req); err != nil {
		if isDuplicateErr(err) {
			return nil, conflict("you have already sent a request for this advertisement")
		}
		return nil, err
	}

	s.notifier.Notify(models.Notification{
		UserID:          ad.OwnerID,
		Type:            models.NotifyRequestReceived,
		AdvertisementID: ad.ID,
		RentRequestID:   &req.ID,
		Title:           "New rent request",
		Message:         fmt.Sprintf("Someone wants to rent %q.", ad.Title),
	})
	return req, nil
}

// List returns the requests of an advertisement to its owner. Anyone else
// gets an empty list, not an error.
func (s *rentRequestService) List(ctx context.Context, p policy.Principal, adID int64) ([]models.RentRequest, error) {
	if err := policy.Authorize(p, policy.ListRentRequests, nil); err != nil {
		return nil, err
	}
	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		return nil, translate(err, "advertisement")
	}
	if !policy.CanSeeRequests(p, ad.OwnerID) {
		return []models.RentRequest{}, nil
	}
	return s.requestRepo.ListByAd(ctx, adID)
}

func (s *rentRequestService) Get(ctx context.Context, p policy.Principal, adID, id int64) (*models.RentRequest, error) {
	if err := policy.RequireIdentity(p); err != nil {
		return nil, err
	}
	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		return nil, translate(err, "advertisement")
	}
	req, err := s.requestRepo.FindByID(ctx, adID, id)
	if err != nil {
		return nil, translate(err, "rent request")
	}
	res := &policy.Resource{OwnerID: ad.OwnerID, SenderID: req.SenderID}
	if err := policy.Authorize(p, policy.RetrieveRentRequest, res); err != nil {
		return nil, err
	}
	return req, nil
}

// Accept is reserved to the advertisement owner. The owner check happens
// before the request lookup so a stranger learns nothing about request ids.
func (s *rentRequestService) Accept(ctx context.Context, p policy.Principal, adID, id int64) (*models.RentRequest, error) {
	if err := policy.RequireIdentity(p); err != nil {
		return nil, err
	}
	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		return nil, translate(err, "advertisement")
	}
	if err := policy.Authorize(p, policy.AcceptRentRequest, &policy.Resource{OwnerID: ad.OwnerID}); err != nil {
		return nil, err
	}

	accepted, closed, err := s.requestRepo.Accept(ctx, adID, id)
	if err != nil {
		return nil, translate(err, "rent request")
	}

	s.notifier.Notify(models.Notification{
		UserID:          accepted.SenderID,
		Type:            models.NotifyRequestAccepted,
		AdvertisementID: ad.ID,
		RentRequestID:   &accepted.ID,
		Title:           "Rent request accepted",
		Message:         fmt.Sprintf("Your request for %q was accepted.", ad.Title),
	})
	for i := range closed {
		s.notifier.Notify(models.Notification{
			UserID:          closed[i].SenderID,
			Type:            models.NotifyRequestClosed,
			AdvertisementID: ad.ID,
			RentRequestID:   &closed[i].ID,
			Title:           "Rent request closed",
			Message:         fmt.Sprintf("%q has been rented to someone else.", ad.Title),
		})
	}
	return accepted, nil
}

func (s *rentRequestService) ListMine(ctx context.Context, p policy.Principal) ([]models.RentRequest, error) {
	if err := policy.Authorize(p, policy.ListOwnRequests, nil); err != nil {
		return nil, err
	}
	return s.requestRepo.ListBySender(ctx, p.UserID)
}
