package models

import "time"

type Review struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AdvertisementID int64     `json:"advertisement_id" gorm:"not null;uniqueIndex:idx_reviews_ad_user"`
	UserID          int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_reviews_ad_user"`
	Rating          int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment         string    `json:"comment" gorm:"not null;type:text;default:''"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations. The advertisement side owns the cascade.
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
