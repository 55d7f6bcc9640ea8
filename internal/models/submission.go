package models

import "time"

// Submission marks that a user has completed the survey. At most one exists
// per user; the unique index on user_id enforces it.
type Submission struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"uniqueIndex;not null" json:"userId"`
	SubmittedAt       time.Time `gorm:"not null;index" json:"submittedAt"`
	IsEligibleForDraw bool      `gorm:"not null" json:"isEligibleForDraw"`

	Answers []Answer `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
}

func (Submission) TableName() string { return "survey_submissions" }

// Answer stores the value given for one question. Single-choice and free-text
// answers are stored as a one-element list.
type Answer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submissionId"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_answer_user_question" json:"userId"`
	QuestionID   uint      `gorm:"not null;uniqueIndex:idx_answer_user_question;index" json:"questionId"`
	Value        []string  `gorm:"serializer:json;type:text;not null" json:"value"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Answer) TableName() string { return "survey_answers" }
