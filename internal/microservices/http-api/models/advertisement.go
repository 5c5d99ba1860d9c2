package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Advertisement struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID     int64           `json:"owner" gorm:"not null;index"`
	CategoryID  *int64          `json:"category" gorm:"index"`
	Title       string          `json:"title" gorm:"not null;size:255"`
	Description string          `json:"description" gorm:"not null;type:text"`
	Price       decimal.Decimal `json:"price" gorm:"not null;type:decimal(12,2)"`
	Approved    bool            `json:"approved" gorm:"not null;default:false;index"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime;index"`

	// Associations. Rent requests and favorites carry their own cascading FK.
	Owner    *User                `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;"`
	Category *Category            `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Images   []AdvertisementImage `json:"images,omitempty" gorm:"foreignKey:AdvertisementID;constraint:OnDelete:CASCADE;"`
	Reviews  []Review             `json:"reviews,omitempty" gorm:"foreignKey:AdvertisementID;constraint:OnDelete:CASCADE;"`
}

func (Advertisement) TableName() string {
	return "advertisements"
}
