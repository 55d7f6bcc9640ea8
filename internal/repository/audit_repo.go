package repository

import (
	"context"

	"knowyourplate/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByAction returns the most recent entries for an action.
func (r *AuditLogRepository) ListByAction(ctx context.Context, action string, limit int) ([]models.AuditLog, error) {
	var list []models.AuditLog
	err := r.db.WithContext(ctx).Where("action = ?", action).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
