package models

import "time"

type Favorite struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64     `gorm:"not null;index;uniqueIndex:idx_favorites_user_ad" json:"user_id"`
	AdvertisementID int64     `gorm:"not null;uniqueIndex:idx_favorites_user_ad" json:"advertisement_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User          *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Advertisement *Advertisement `gorm:"foreignKey:AdvertisementID;constraint:OnDelete:CASCADE;" json:"advertisement,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
