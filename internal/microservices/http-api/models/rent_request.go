package models

import "time"

// Rent request statuses. accepted and closed are terminal.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusClosed   = "closed"
)

type RentRequest struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AdvertisementID int64     `json:"advertisement_id" gorm:"not null;uniqueIndex:idx_rent_requests_ad_sender"`
	SenderID        int64     `json:"sender_id" gorm:"not null;index;uniqueIndex:idx_rent_requests_ad_sender"`
	Status          string    `json:"status" gorm:"not null;size:10;default:'pending'"`
	Message         string    `json:"message" gorm:"not null;type:text;default:''"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Advertisement *Advertisement `json:"-" gorm:"foreignKey:AdvertisementID;constraint:OnDelete:CASCADE;"`
	Sender        *User          `json:"-" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE;"`
}

func (RentRequest) TableName() string {
	return "rent_requests"
}
