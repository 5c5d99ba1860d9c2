package dto

import (
	"time"

	"shohorbari/internal/microservices/http-api/models"
)

type CreateRentRequestRequest struct {
	Message string `json:"message" binding:"max=2000"`
}

type RentRequestResponse struct {
	ID            int64     `json:"id"`
	Advertisement int64     `json:"advertisement"`
	Sender        int64     `json:"sender"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromModelToRentRequestResponse(r *models.RentRequest) RentRequestResponse {
	return RentRequestResponse{
		ID:            r.ID,
		Advertisement: r.AdvertisementID,
		Sender:        r.SenderID,
		Status:        r.Status,
		Message:       r.Message,
		CreatedAt:     r.CreatedAt,
	}
}

func FromModelsToRentRequestResponses(reqs []models.RentRequest) []RentRequestResponse {
	out := make([]RentRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, FromModelToRentRequestResponse(&reqs[i]))
	}
	return out
}
