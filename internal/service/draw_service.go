package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"knowyourplate/internal/domain"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/metrics"
	"knowyourplate/internal/models"
	"knowyourplate/internal/repository"

	"github.com/sirupsen/logrus"
)

var ErrNoEligibleUsers = domain.NewError(domain.ErrInvalidArgument, "no eligible users for draw")

type DrawRepository interface {
	ListEligible(ctx context.Context) ([]repository.Entrant, error)
	Create(ctx context.Context, d *models.Draw) error
	List(ctx context.Context, limit, offset int) ([]models.Draw, error)
}

type DrawResult struct {
	Winner        repository.Entrant `json:"winner"`
	TotalEligible int                `json:"totalEligible"`
	Prize         string             `json:"prize"`
	DrawID        uint               `json:"drawId"`
}

type DrawService struct {
	repo    DrawRepository
	audit   auditor
	prize   string
	metrics *metrics.Metrics
	log     *logger.Logger
	pick    func(n int) int
}

func NewDrawService(repo DrawRepository, audit AuditRepository, prize string, m *metrics.Metrics, log *logger.Logger) *DrawService {
	return &DrawService{
		repo:    repo,
		audit:   auditor{repo: audit, log: log},
		prize:   prize,
		metrics: m,
		log:     log,
		pick:    rand.IntN,
	}
}

// ConductDraw picks one winner uniformly among non-admin users with an
// eligible submission. It is not idempotent: every call draws again and
// earlier winners stay eligible, so repeated or concurrent calls can name
// different winners. Each run is recorded in the draw history.
func (s *DrawService) ConductDraw(ctx context.Context, actor Actor) (*DrawResult, error) {
	entrants, err := s.repo.ListEligible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list eligible: %w", err)
	}
	if len(entrants) == 0 {
		return nil, ErrNoEligibleUsers
	}

	winner := entrants[s.pick(len(entrants))]

	d := &models.Draw{
		WinnerUserID:  winner.ID,
		TotalEligible: len(entrants),
		Prize:         s.prize,
		ConductedBy:   actor.UserID,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("record draw: %w", err)
	}

	s.audit.record(ctx, actor, domain.AuditLuckyDraw, "draw", d.ID, map[string]any{
		"winnerUserId":  winner.ID,
		"totalEligible": len(entrants),
	})
	if s.metrics != nil {
		s.metrics.Draws.Inc()
	}
	s.log.WithUserID(actor.UserID).WithFields(logrus.Fields{
		"draw_id":        d.ID,
		"winner_id":      winner.ID,
		"total_eligible": len(entrants),
	}).Info("lucky draw conducted")

	return &DrawResult{Winner: winner, TotalEligible: len(entrants), Prize: s.prize, DrawID: d.ID}, nil
}

// ListDraws returns the draw history newest first.
func (s *DrawService) ListDraws(ctx context.Context, limit, offset int) ([]models.Draw, error) {
	return s.repo.List(ctx, limit, offset)
}
