package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"shohorbari/internal/microservices/http-api/models"

	"github.com/shopspring/decimal"
)

// CreateAdvertisementRequest: owner comes from the token, approved always starts false
type CreateAdvertisementRequest struct {
	Category    *int64           `json:"category"`
	Title       string           `json:"title" binding:"required,max=255"`
	Description string           `json:"description" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required,price"`
}

func (r *CreateAdvertisementRequest) ToModel() *models.Advertisement {
	return &models.Advertisement{
		CategoryID:  r.Category,
		Title:       r.Title,
		Description: r.Description,
		Price:       *r.Price,
	}
}

// OptionalID tells a field left out of the body from an explicit null
type OptionalID struct {
	Set   bool
	Value *int64
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// UpdateAdvertisementRequest serves both PUT and PATCH. Absent fields are
// left alone; "category": null detaches the category.
type UpdateAdvertisementRequest struct {
	Category    OptionalID       `json:"category"`
	Title       *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description" binding:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,price"`
}

func (r *UpdateAdvertisementRequest) ApplyTo(ad *models.Advertisement) {
	if r.Category.Set {
		ad.CategoryID = r.Category.Value
	}
	if r.Title != nil {
		ad.Title = *r.Title
	}
	if r.Description != nil {
		ad.Description = *r.Description
	}
	if r.Price != nil {
		ad.Price = *r.Price
	}
}

// ListAdvertisementsQuery binds the listing query string
type ListAdvertisementsQuery struct {
	Category *int64 `form:"category"`
	Approved *bool  `form:"approved"`
	Search   string `form:"search"`
	Ordering string `form:"ordering"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type AdvertisementResponse struct {
	ID          int64            `json:"id"`
	Owner       int64            `json:"owner"`
	Category    *int64           `json:"category"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       string           `json:"price"`
	Approved    bool             `json:"approved"`
	CreatedAt   time.Time        `json:"created_at"`
	Images      []ImageResponse  `json:"images"`
	Reviews     []ReviewResponse `json:"reviews"`
}

func FromModelToAdvertisementResponse(ad *models.Advertisement) *AdvertisementResponse {
	resp := &AdvertisementResponse{
		ID:          ad.ID,
		Owner:       ad.OwnerID,
		Category:    ad.CategoryID,
		Title:       ad.Title,
		Description: ad.Description,
		Price:       ad.Price.StringFixed(2),
		Approved:    ad.Approved,
		CreatedAt:   ad.CreatedAt,
		Images:      make([]ImageResponse, 0, len(ad.Images)),
		Reviews:     make([]ReviewResponse, 0, len(ad.Reviews)),
	}
	for i := range ad.Images {
		resp.Images = append(resp.Images, FromModelToImageResponse(&ad.Images[i]))
	}
	for i := range ad.Reviews {
		resp.Reviews = append(resp.Reviews, FromModelToReviewResponse(&ad.Reviews[i]))
	}
	return resp
}

func FromModelsToAdvertisementResponses(ads []models.Advertisement) []AdvertisementResponse {
	out := make([]AdvertisementResponse, 0, len(ads))
	for i := range ads {
		out = append(out, *FromModelToAdvertisementResponse(&ads[i]))
	}
	return out
}

// PaginatedAdvertisementResponse for returning paginated advertisements
type PaginatedAdvertisementResponse struct {
	Data       []AdvertisementResponse `json:"data"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	Total      int64                   `json:"total"`
	TotalPages int64                   `json:"total_pages"`
}

func NewPaginatedAdvertisementResponse(ads []models.Advertisement, total int64, page, pageSize int) *PaginatedAdvertisementResponse {
	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	return &PaginatedAdvertisementResponse{
		Data:       FromModelsToAdvertisementResponses(ads),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// SimpleAdvertisement is the nested form used in favorites
type SimpleAdvertisement struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
