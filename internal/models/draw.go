package models

import "time"

// Draw records one run of the lucky draw. It is history only and does not
// affect who is eligible next time.
type Draw struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WinnerUserID  uint      `gorm:"not null;index" json:"winnerUserId"`
	TotalEligible int       `gorm:"not null" json:"totalEligible"`
	Prize         string    `gorm:"size:255" json:"prize"`
	ConductedBy   uint      `gorm:"not null" json:"conductedBy"`
	CreatedAt     time.Time `json:"createdAt"`

	Winner User `gorm:"foreignKey:WinnerUserID" json:"winner"`
}

func (Draw) TableName() string { return "draws" }
