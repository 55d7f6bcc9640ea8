package repository

import (
	"context"
	"time"

	"knowyourplate/internal/models"

	"gorm.io/gorm"
)

// Entrant is a user eligible for the lucky draw.
type Entrant struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ReferralCode string    `json:"referralCode"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

type DrawRepository struct {
	db *gorm.DB
}

func NewDrawRepository(db *gorm.DB) *DrawRepository {
	return &DrawRepository{db: db}
}

// ListEligible returns non-admin users holding an eligible submission.
func (r *DrawRepository) ListEligible(ctx context.Context) ([]Entrant, error) {
	var list []Entrant
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.name, users.email, users.referral_code, s.submitted_at").
		Joins("JOIN survey_submissions s ON s.user_id = users.id").
		Where("s.is_eligible_for_draw = ? AND users.is_admin = ?", true, false).
		Order("users.id ASC").
		Scan(&list).Error
	return list, err
}

func (r *DrawRepository) Create(ctx context.Context, d *models.Draw) error {
	return r.db.WithContext(ctx).Omit("Winner").Create(d).Error
}

// List returns the draw history newest first.
func (r *DrawRepository) List(ctx context.Context, limit, offset int) ([]models.Draw, error) {
	var list []models.Draw
	err := r.db.WithContext(ctx).
		Preload("Winner").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
