package repository

import (
	"context"

	"knowyourplate/internal/models"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ListActive(ctx context.Context) ([]models.Question, error) {
	var list []models.Question
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("order_index ASC").Find(&list).Error
	return list, err
}

func (r *QuestionRepository) ListAll(ctx context.Context) ([]models.Question, error) {
	var list []models.Question
	err := r.db.WithContext(ctx).Order("order_index ASC").Find(&list).Error
	return list, err
}

func (r *QuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	if err := r.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

// Update writes every column, including zero values such as IsActive=false
// and a cleared RequiredSelections.
func (r *QuestionRepository) Update(ctx context.Context, q *models.Question) error {
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Question{}, id).Error
}

// CountAnswers returns the number of stored answers referencing the question.
func (r *QuestionRepository) CountAnswers(ctx context.Context, id uint) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.Answer{}).Where("question_id = ?", id).Count(&c).Error
	return c, err
}
