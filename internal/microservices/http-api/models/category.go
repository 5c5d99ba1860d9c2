package models

// Category is a property kind, e.g. Apartment or House
type Category struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null;size:100"`
}

func (Category) TableName() string {
	return "categories"
}
