package models

import "time"

// AdvertisementImage points at a blob in the image store; the row goes away with its advertisement
type AdvertisementImage struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AdvertisementID int64     `json:"advertisement_id" gorm:"not null;index"`
	StorageKey      string    `json:"-" gorm:"not null;size:512"`
	URL             string    `json:"image" gorm:"not null;size:1024"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (AdvertisementImage) TableName() string {
	return "advertisement_images"
}
