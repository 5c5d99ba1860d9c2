package dto

import (
	"time"

	"shohorbari/internal/microservices/http-api/models"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

func (r *CreateReviewRequest) ToModel(adID, userID int64) *models.Review {
	return &models.Review{
		AdvertisementID: adID,
		UserID:          userID,
		Rating:          r.Rating,
		Comment:         r.Comment,
	}
}

type ReviewResponse struct {
	ID            int64      `json:"id"`
	Advertisement int64      `json:"advertisement"`
	User          SimpleUser `json:"user"`
	Rating        int        `json:"rating"`
	Comment       string     `json:"comment"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromModelToReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:            r.ID,
		Advertisement: r.AdvertisementID,
		User:          FromModelToSimpleUser(r.UserID, r.User),
		Rating:        r.Rating,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
}

func FromModelsToReviewResponses(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, FromModelToReviewResponse(&reviews[i]))
	}
	return out
}
