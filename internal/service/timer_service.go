package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"knowyourplate/internal/domain"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/metrics"
	"knowyourplate/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TimerEvent is the message type pushed to live countdown subscribers.
const TimerEvent = "timer"

var ErrInvalidDays = domain.NewError(domain.ErrInvalidArgument, "days must be at least 1")

type TimerRepository interface {
	Get(ctx context.Context) (*models.TimerState, error)
	Save(ctx context.Context, t *models.TimerState) error
	CreateIfAbsent(ctx context.Context, t *models.TimerState) (bool, error)
}

// Notifier pushes events to connected clients.
type Notifier interface {
	Broadcast(event string, payload any)
}

// Remaining is the countdown split into calendar units.
type Remaining struct {
	Days      int  `json:"days"`
	Hours     int  `json:"hours"`
	Minutes   int  `json:"minutes"`
	Seconds   int  `json:"seconds"`
	IsExpired bool `json:"isExpired"`
}

type TimerView struct {
	EndDate     time.Time `json:"endDate"`
	IsActive    bool      `json:"isActive"`
	LastUpdated time.Time `json:"lastUpdated"`
	IsOpen      bool      `json:"isOpen"`
	Remaining   Remaining `json:"remaining"`
}

type TimerService struct {
	repo        TimerRepository
	audit       auditor
	notifier    Notifier
	defaultDays int
	metrics     *metrics.Metrics
	log         *logger.Logger
	now         func() time.Time
}

func NewTimerService(repo TimerRepository, audit AuditRepository, notifier Notifier, defaultDays int, m *metrics.Metrics, log *logger.Logger) *TimerService {
	if defaultDays < 1 {
		defaultDays = 7
	}
	return &TimerService{
		repo:        repo,
		audit:       auditor{repo: audit, log: log},
		notifier:    notifier,
		defaultDays: defaultDays,
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

// GetTimerState reads the timer without side effects. When no timer was ever
// stored an active default ending defaultDays from now is returned.
func (s *TimerService) GetTimerState(ctx context.Context) (*TimerView, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(state), nil
}

// IsOpen reports whether submissions are accepted right now.
func (s *TimerService) IsOpen(ctx context.Context) (bool, error) {
	state, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return state.IsOpen(s.now()), nil
}

// SetTimerState applies an admin action. days is only read by reset; when
// omitted the default window is used.
func (s *TimerService) SetTimerState(ctx context.Context, actor Actor, action string, days *int) (*TimerView, error) {
	now := s.now()
	var state *models.TimerState

	switch action {
	case domain.TimerActionReset:
		n := s.defaultDays
		if days != nil {
			n = *days
		}
		if n < 1 {
			return nil, ErrInvalidDays
		}
		state = &models.TimerState{EndDate: now.AddDate(0, 0, n), IsActive: true}
		if err := s.repo.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("save timer: %w", err)
		}

	case domain.TimerActionStart, domain.TimerActionStop:
		current, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		state = &models.TimerState{EndDate: current.EndDate, IsActive: action == domain.TimerActionStart}
		if err := s.repo.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("save timer: %w", err)
		}

	case domain.TimerActionInitialize:
		v, _, err := s.InitializeIfAbsent(ctx, actor)
		return v, err

	default:
		return nil, domain.Invalidf("unknown timer action %q", action)
	}

	state.UpdatedAt = now
	v := s.view(state)
	s.afterMutation(ctx, actor, action, v)
	return v, nil
}

// InitializeIfAbsent persists the default timer when none is stored and
// otherwise returns the stored state unchanged.
func (s *TimerService) InitializeIfAbsent(ctx context.Context, actor Actor) (*TimerView, bool, error) {
	now := s.now()
	state := &models.TimerState{EndDate: now.AddDate(0, 0, s.defaultDays), IsActive: true}
	created, err := s.repo.CreateIfAbsent(ctx, state)
	if err != nil {
		return nil, false, fmt.Errorf("initialize timer: %w", err)
	}
	if !created {
		v, err := s.GetTimerState(ctx)
		return v, false, err
	}
	state.UpdatedAt = now
	v := s.view(state)
	s.afterMutation(ctx, actor, domain.TimerActionInitialize, v)
	return v, true, nil
}

func (s *TimerService) afterMutation(ctx context.Context, actor Actor, action string, v *TimerView) {
	s.audit.record(ctx, actor, domain.AuditTimerUpdate, "timer", models.TimerStateID, map[string]any{
		"action":   action,
		"endDate":  v.EndDate,
		"isActive": v.IsActive,
	})
	if s.metrics != nil {
		s.metrics.TimerUpdates.WithLabelValues(action).Inc()
	}
	if s.notifier != nil {
		s.notifier.Broadcast(TimerEvent, v)
	}
	s.log.WithUserID(actor.UserID).WithFields(logrus.Fields{
		"action":    action,
		"end_date":  v.EndDate,
		"is_active": v.IsActive,
	}).Info("timer updated")
}

// load returns the stored timer or the synthesised default.
func (s *TimerService) load(ctx context.Context) (*models.TimerState, error) {
	state, err := s.repo.Get(ctx)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load timer: %w", err)
	}
	now := s.now()
	return &models.TimerState{
		ID:        models.TimerStateID,
		EndDate:   now.AddDate(0, 0, s.defaultDays),
		IsActive:  true,
		UpdatedAt: now,
	}, nil
}

func (s *TimerService) view(t *models.TimerState) *TimerView {
	now := s.now()
	return &TimerView{
		EndDate:     t.EndDate,
		IsActive:    t.IsActive,
		LastUpdated: t.UpdatedAt,
		IsOpen:      t.IsOpen(now),
		Remaining:   RemainingUntil(t, now),
	}
}

// RemainingUntil splits the time left before the timer closes. It is all
// zero and expired once the timer is stopped or past its end date.
func RemainingUntil(t *models.TimerState, now time.Time) Remaining {
	if !t.IsOpen(now) {
		return Remaining{IsExpired: true}
	}
	d := t.EndDate.Sub(now)
	return Remaining{
		Days:    int(d / (24 * time.Hour)),
		Hours:   int(d % (24 * time.Hour) / time.Hour),
		Minutes: int(d % time.Hour / time.Minute),
		Seconds: int(d % time.Minute / time.Second),
	}
}
