package models

import (
	"strings"
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null;default:''" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	ReferralCode string    `gorm:"uniqueIndex;size:20;not null" json:"referralCode"`
	ReferredBy   *string   `gorm:"size:20;index" json:"referredBy"` // not a foreign key; may point at an unknown code
	IsAdmin      bool      `gorm:"not null;default:false;index" json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Submission *Submission `gorm:"foreignKey:UserID" json:"submission,omitempty"`
}

func (User) TableName() string { return "users" }

// DisplayName falls back to the local part of the email when no name was given.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}
