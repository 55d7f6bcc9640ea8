package service

import (
	"context"
	"encoding/json"
	"strconv"

	"knowyourplate/internal/logger"
	"knowyourplate/internal/models"
)

type AuditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// Actor identifies who triggered a change and from where.
type Actor struct {
	UserID    uint
	IP        string
	UserAgent string
}

// auditor writes audit entries. A failed write is logged and never fails the
// operation being audited.
type auditor struct {
	repo AuditRepository
	log  *logger.Logger
}

func (a auditor) record(ctx context.Context, actor Actor, action, resource string, resourceID uint, meta any) {
	if a.repo == nil {
		return
	}
	entry := &models.AuditLog{
		Action:    action,
		Resource:  resource,
		IP:        actor.IP,
		UserAgent: actor.UserAgent,
	}
	if actor.UserID != 0 {
		uid := actor.UserID
		entry.UserID = &uid
	}
	if resourceID != 0 {
		entry.ResourceID = strconv.FormatUint(uint64(resourceID), 10)
	}
	if meta != nil {
		if b, err := json.Marshal(meta); err == nil {
			entry.Metadata = string(b)
		}
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		a.log.Entry().WithError(err).WithField("action", action).Warn("audit write failed")
	}
}
