package repository

import (
	"context"

	"knowyourplate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimerRepository stores the singleton timer row.
type TimerRepository struct {
	db *gorm.DB
}

func NewTimerRepository(db *gorm.DB) *TimerRepository {
	return &TimerRepository{db: db}
}

// Get returns gorm.ErrRecordNotFound when the timer was never persisted.
func (r *TimerRepository) Get(ctx context.Context) (*models.TimerState, error) {
	var t models.TimerState
	if err := r.db.WithContext(ctx).First(&t, models.TimerStateID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Save upserts the timer row.
func (r *TimerRepository) Save(ctx context.Context, t *models.TimerState) error {
	t.ID = models.TimerStateID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"end_date", "is_active", "updated_at"}),
	}).Create(t).Error
}

// CreateIfAbsent inserts t unless a timer row already exists. It reports
// whether the row was written.
func (r *TimerRepository) CreateIfAbsent(ctx context.Context, t *models.TimerState) (bool, error) {
	t.ID = models.TimerStateID
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(t)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
