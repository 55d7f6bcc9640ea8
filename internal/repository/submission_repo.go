package repository

import (
	"context"

	"knowyourplate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) GetByUserID(ctx context.Context, userID uint) (*models.Submission, error) {
	var s models.Submission
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateWithAnswers inserts the submission and its answers in one transaction.
// A second submission for the same user fails with gorm.ErrDuplicatedKey on
// the user_id unique index and nothing is written.
func (r *SubmissionRepository) CreateWithAnswers(ctx context.Context, sub *models.Submission, answers []models.Answer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(sub).Error; err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].SubmissionID = sub.ID
			answers[i].UserID = sub.UserID
		}
		if err := tx.Create(&answers).Error; err != nil {
			return err
		}
		sub.Answers = answers
		return nil
	})
}
