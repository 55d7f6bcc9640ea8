package models

import "time"

// Question is one entry of the survey catalog. Options is nil for free-text
// questions. RequiredSelections is only set for limited multiple choice.
type Question struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	OrderIndex         int       `gorm:"uniqueIndex;not null" json:"order"`
	Text               string    `gorm:"type:text;not null" json:"text"`
	Type               string    `gorm:"size:40;not null" json:"type"`
	Options            []string  `gorm:"serializer:json;type:text" json:"options"`
	RequiredSelections *int      `json:"requiredSelections,omitempty"`
	IsActive           bool      `gorm:"not null;index" json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (Question) TableName() string { return "survey_questions" }

func (q *Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o == value {
			return true
		}
	}
	return false
}
