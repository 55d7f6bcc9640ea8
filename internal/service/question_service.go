package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"knowyourplate/internal/domain"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/models"

	"gorm.io/gorm"
)

var (
	ErrQuestionNotFound  = domain.NewError(domain.ErrNotFound, "question not found")
	ErrQuestionOrderUsed = domain.NewError(domain.ErrConflict, "question order already in use")
	ErrQuestionAnswered  = domain.NewError(domain.ErrConflict, "question has answers and cannot be deleted")
)

type QuestionRepository interface {
	ListActive(ctx context.Context) ([]models.Question, error)
	ListAll(ctx context.Context) ([]models.Question, error)
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Create(ctx context.Context, q *models.Question) error
	Update(ctx context.Context, q *models.Question) error
	Delete(ctx context.Context, id uint) error
	CountAnswers(ctx context.Context, id uint) (int64, error)
}

// QuestionInput is the admin payload for creating or replacing a question.
// IsActive is left unchanged on update when nil.
type QuestionInput struct {
	Text               string   `json:"text"`
	Type               string   `json:"type"`
	Options            []string `json:"options"`
	Order              int      `json:"order"`
	RequiredSelections *int     `json:"requiredSelections"`
	IsActive           *bool    `json:"isActive"`
}

type QuestionService struct {
	repo  QuestionRepository
	audit auditor
	log   *logger.Logger
}

func NewQuestionService(repo QuestionRepository, audit AuditRepository, log *logger.Logger) *QuestionService {
	return &QuestionService{repo: repo, audit: auditor{repo: audit, log: log}, log: log}
}

// ListActiveQuestions returns the public catalog in display order.
func (s *QuestionService) ListActiveQuestions(ctx context.Context) ([]models.Question, error) {
	return s.repo.ListActive(ctx)
}

func (s *QuestionService) ListAllQuestions(ctx context.Context) ([]models.Question, error) {
	return s.repo.ListAll(ctx)
}

func (s *QuestionService) CreateQuestion(ctx context.Context, actor Actor, in QuestionInput) (*models.Question, error) {
	q := &models.Question{IsActive: true}
	if err := applyQuestionInput(q, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, q); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrQuestionOrderUsed
		}
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.audit.record(ctx, actor, domain.AuditQuestionCreate, "question", q.ID, map[string]any{"order": q.OrderIndex, "type": q.Type})
	s.log.WithUserID(actor.UserID).WithField("question_id", q.ID).Info("question created")
	return q, nil
}

// UpdateQuestion replaces text, type, options, order and required selections.
func (s *QuestionService) UpdateQuestion(ctx context.Context, actor Actor, id uint, in QuestionInput) (*models.Question, error) {
	q, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyQuestionInput(q, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, q); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrQuestionOrderUsed
		}
		return nil, fmt.Errorf("update question: %w", err)
	}
	s.audit.record(ctx, actor, domain.AuditQuestionUpdate, "question", q.ID, map[string]any{"order": q.OrderIndex, "isActive": q.IsActive})
	s.log.WithUserID(actor.UserID).WithField("question_id", q.ID).Info("question updated")
	return q, nil
}

// DeleteQuestion refuses to remove a question that already has answers.
func (s *QuestionService) DeleteQuestion(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	n, err := s.repo.CountAnswers(ctx, id)
	if err != nil {
		return fmt.Errorf("count answers: %w", err)
	}
	if n > 0 {
		return ErrQuestionAnswered
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	s.audit.record(ctx, actor, domain.AuditQuestionDelete, "question", id, nil)
	s.log.WithUserID(actor.UserID).WithField("question_id", id).Info("question deleted")
	return nil
}

func (s *QuestionService) get(ctx context.Context, id uint) (*models.Question, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// applyQuestionInput validates in and copies it onto q. q is untouched on error.
func applyQuestionInput(q *models.Question, in QuestionInput) error {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return domain.Invalidf("question text is required")
	}
	if !domain.IsKnownQuestionType(in.Type) {
		return domain.Invalidf("unknown question type %q", in.Type)
	}
	if in.Order < 1 {
		return domain.Invalidf("order must be at least 1")
	}

	var options []string
	if in.Type != domain.QuestionTypeText {
		if len(in.Options) == 0 {
			return domain.Invalidf("options are required for %s questions", in.Type)
		}
		seen := make(map[string]bool, len(in.Options))
		for _, o := range in.Options {
			o = strings.TrimSpace(o)
			if o == "" {
				return domain.Invalidf("options must not be blank")
			}
			if strings.ContainsRune(o, ';') {
				return domain.Invalidf("option %q must not contain ';'", o)
			}
			if seen[o] {
				return domain.Invalidf("duplicate option %q", o)
			}
			seen[o] = true
			options = append(options, o)
		}
	}

	var required *int
	if in.Type == domain.QuestionTypeMultipleChoiceLimited {
		if in.RequiredSelections == nil || *in.RequiredSelections < 1 || *in.RequiredSelections > len(options) {
			return domain.Invalidf("requiredSelections must be between 1 and %d", len(options))
		}
		n := *in.RequiredSelections
		required = &n
	}

	q.Text = text
	q.Type = in.Type
	q.Options = options
	q.OrderIndex = in.Order
	q.RequiredSelections = required
	if in.IsActive != nil {
		q.IsActive = *in.IsActive
	}
	return nil
}
