package dto

import (
	"strings"

	"shohorbari/internal/microservices/http-api/models"
)

type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func (r *CategoryRequest) ToModel() *models.Category {
	return &models.Category{Name: strings.TrimSpace(r.Name)}
}
