package models

import (
	"strings"
	"time"
)

// only 2 roles: "user", "admin" | default after registration is "user"
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;size:254" json:"email"`
	Password    string     `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	FirstName   string     `gorm:"size:150" json:"first_name"`
	LastName    string     `gorm:"size:150" json:"last_name"`
	PhoneNumber *string    `gorm:"size:15" json:"phone_number,omitempty"`
	Address     *string    `gorm:"type:text" json:"address,omitempty"`
	Role        string     `gorm:"default:'user';not null;size:10" json:"role"`
	IsActive    bool       `gorm:"default:true;not null" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName mirrors what reviewers and request senders are shown as
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
