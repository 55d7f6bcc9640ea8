package models

import "time"

// TimerStateID is the primary key of the single timer row.
const TimerStateID uint = 1

// TimerState controls the survey submission window.
type TimerState struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (TimerState) TableName() string { return "timer_states" }

// IsOpen reports whether submissions are accepted at now.
func (t *TimerState) IsOpen(now time.Time) bool {
	return t.IsActive && now.Before(t.EndDate)
}
