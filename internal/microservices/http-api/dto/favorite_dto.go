package dto

import "shohorbari/internal/microservices/http-api/models"

type CreateFavoriteRequest struct {
	Advertisement int64 `json:"advertisement" binding:"required,gt=0"`
}

type FavoriteResponse struct {
	ID            int64                `json:"id"`
	User          SimpleUser           `json:"user"`
	Advertisement *SimpleAdvertisement `json:"advertisement"`
}

func FromModelToFavoriteResponse(f *models.Favorite) FavoriteResponse {
	resp := FavoriteResponse{
		ID:            f.ID,
		User:          FromModelToSimpleUser(f.UserID, f.User),
		Advertisement: &SimpleAdvertisement{ID: f.AdvertisementID},
	}
	if f.Advertisement != nil {
		resp.Advertisement.Title = f.Advertisement.Title
	}
	return resp
}

func FromModelsToFavoriteResponses(favs []models.Favorite) []FavoriteResponse {
	out := make([]FavoriteResponse, 0, len(favs))
	for i := range favs {
		out = append(out, FromModelToFavoriteResponse(&favs[i]))
	}
	return out
}
