package models

import "time"

// Notification types
const (
	NotifyRequestReceived = "RENT_REQUEST_RECEIVED"
	NotifyRequestAccepted = "RENT_REQUEST_ACCEPTED"
	NotifyRequestClosed   = "RENT_REQUEST_CLOSED"
	NotifyAdApproved      = "ADVERTISEMENT_APPROVED"
)

type Notification struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64     `gorm:"not null;index" json:"user_id"`
	Type            string    `gorm:"not null;size:32" json:"type"`
	AdvertisementID int64     `gorm:"not null" json:"advertisement_id"`
	RentRequestID   *int64    `json:"rent_request_id,omitempty"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	Read            bool      `gorm:"default:false" json:"read"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
