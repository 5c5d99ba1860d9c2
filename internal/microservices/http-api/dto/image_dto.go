package dto

import "shohorbari/internal/microservices/http-api/models"

type ImageResponse struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

func FromModelToImageResponse(img *models.AdvertisementImage) ImageResponse {
	return ImageResponse{ID: img.ID, Image: img.URL}
}

func FromModelsToImageResponses(images []models.AdvertisementImage) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for i := range images {
		out = append(out, FromModelToImageResponse(&images[i]))
	}
	return out
}
