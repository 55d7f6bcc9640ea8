package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"knowyourplate/internal/auth"
	"knowyourplate/internal/domain"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/metrics"
	"knowyourplate/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUnauthenticated  = domain.NewError(domain.ErrUnauthorized, "unauthorized")
	ErrSurveyClosed     = domain.NewError(domain.ErrForbidden, "survey is closed")
	ErrAlreadySubmitted = domain.NewError(domain.ErrConflict, "survey already submitted")
)

type SubmissionRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Submission, error)
	CreateWithAnswers(ctx context.Context, sub *models.Submission, answers []models.Answer) error
}

type ActiveQuestionLister interface {
	ListActive(ctx context.Context) ([]models.Question, error)
}

// TimerGate reports whether the submission window is open.
type TimerGate interface {
	IsOpen(ctx context.Context) (bool, error)
}

// AnswerValue accepts either a JSON string or a JSON list of strings. A plain
// string is held as a one-element list.
type AnswerValue []string

func (v *AnswerValue) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*v = AnswerValue{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("answer must be a string or a list of strings")
	}
	*v = many
	return nil
}

type AnswerInput struct {
	QuestionID uint        `json:"questionId"`
	Answer     AnswerValue `json:"answer"`
}

type SubmitResult struct {
	SubmissionID    uint `json:"submissionId"`
	EligibleForDraw bool `json:"eligibleForDraw"`
}

type SubmissionStatus struct {
	HasCompleted      bool       `json:"hasCompleted"`
	SubmissionDate    *time.Time `json:"submissionDate"`
	IsEligibleForDraw bool       `json:"isEligibleForDraw"`
}

type SurveyService struct {
	submissions SubmissionRepository
	questions   ActiveQuestionLister
	timer       TimerGate
	audit       auditor
	metrics     *metrics.Metrics
	log         *logger.Logger
	now         func() time.Time
}

func NewSurveyService(submissions SubmissionRepository, questions ActiveQuestionLister, timer TimerGate, audit AuditRepository, m *metrics.Metrics, log *logger.Logger) *SurveyService {
	return &SurveyService{
		submissions: submissions,
		questions:   questions,
		timer:       timer,
		audit:       auditor{repo: audit, log: log},
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

// SubmitSurvey records the caller's answers once. Every active question must
// be answered; nothing is written unless the whole set is valid.
func (s *SurveyService) SubmitSurvey(ctx context.Context, id *auth.Identity, answers []AnswerInput, actor Actor) (*SubmitResult, error) {
	res, err := s.submit(ctx, id, answers, actor)
	s.countSubmission(err)
	return res, err
}

func (s *SurveyService) submit(ctx context.Context, id *auth.Identity, answers []AnswerInput, actor Actor) (*SubmitResult, error) {
	if id == nil || id.UserID == 0 {
		return nil, ErrUnauthenticated
	}

	if _, err := s.submissions.GetByUserID(ctx, id.UserID); err == nil {
		return nil, ErrAlreadySubmitted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup submission: %w", err)
	}

	open, err := s.timer.IsOpen(ctx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrSurveyClosed
	}

	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	rows, err := buildAnswers(questions, answers)
	if err != nil {
		return nil, err
	}

	sub := &models.Submission{UserID: id.UserID, SubmittedAt: s.now(), IsEligibleForDraw: true}
	if err := s.submissions.CreateWithAnswers(ctx, sub, rows); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("store submission: %w", err)
	}

	actor.UserID = id.UserID
	s.audit.record(ctx, actor, domain.AuditSurveySubmit, "submission", sub.ID, map[string]any{"answers": len(rows)})
	s.log.WithUserID(id.UserID).WithField("submission_id", sub.ID).Info("survey submitted")
	return &SubmitResult{SubmissionID: sub.ID, EligibleForDraw: true}, nil
}

func (s *SurveyService) countSubmission(err error) {
	if s.metrics == nil {
		return
	}
	result := "accepted"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict):
		result = "duplicate"
	case errors.Is(err, domain.ErrForbidden):
		result = "closed"
	case errors.Is(err, domain.ErrInvalidArgument):
		result = "invalid"
	case errors.Is(err, domain.ErrUnauthorized):
		result = "unauthorized"
	default:
		result = "error"
	}
	s.metrics.Submissions.WithLabelValues(result).Inc()
}

func (s *SurveyService) GetSubmissionStatus(ctx context.Context, userID uint) (*SubmissionStatus, error) {
	sub, err := s.submissions.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SubmissionStatus{}, nil
		}
		return nil, fmt.Errorf("lookup submission: %w", err)
	}
	at := sub.SubmittedAt
	return &SubmissionStatus{HasCompleted: true, SubmissionDate: &at, IsEligibleForDraw: sub.IsEligibleForDraw}, nil
}

// buildAnswers checks the answer set against the active catalog and returns
// one row per active question in catalog order.
func buildAnswers(questions []models.Question, answers []AnswerInput) ([]models.Answer, error) {
	byID := make(map[uint]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	given := make(map[uint][]string, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, domain.Invalidf("question %d is not part of the survey", a.QuestionID)
		}
		if _, dup := given[q.ID]; dup {
			return nil, domain.Invalidf("question %d answered more than once", q.ID)
		}
		values, err := validateAnswer(q, a.Answer)
		if err != nil {
			return nil, err
		}
		given[q.ID] = values
	}

	rows := make([]models.Answer, 0, len(questions))
	for _, q := range questions {
		values, ok := given[q.ID]
		if !ok {
			return nil, domain.Invalidf("question %d must be answered", q.ID)
		}
		rows = append(rows, models.Answer{QuestionID: q.ID, Value: values})
	}
	return rows, nil
}

func validateAnswer(q *models.Question, raw AnswerValue) ([]string, error) {
	switch q.Type {
	case domain.QuestionTypeText:
		if len(raw) != 1 || strings.TrimSpace(raw[0]) == "" {
			return nil, domain.Invalidf("question %d requires a non-empty text answer", q.ID)
		}
		return []string{strings.TrimSpace(raw[0])}, nil

	case domain.QuestionTypeSingleChoice:
		if len(raw) != 1 || raw[0] == "" {
			return nil, domain.Invalidf("question %d requires exactly one choice", q.ID)
		}
		if !q.HasOption(raw[0]) {
			return nil, domain.Invalidf("question %d: %q is not a valid option", q.ID, raw[0])
		}
		return []string{raw[0]}, nil

	case domain.QuestionTypeMultipleChoice, domain.QuestionTypeMultipleChoiceLimited:
		if len(raw) == 0 {
			return nil, domain.Invalidf("question %d requires at least one choice", q.ID)
		}
		if q.Type == domain.QuestionTypeMultipleChoiceLimited {
			if q.RequiredSelections == nil {
				return nil, domain.Invalidf("question %d has no selection count configured", q.ID)
			}
			if len(raw) != *q.RequiredSelections {
				return nil, domain.Invalidf("question %d requires exactly %d choices", q.ID, *q.RequiredSelections)
			}
		}
		seen := make(map[string]bool, len(raw))
		for _, v := range raw {
			if !q.HasOption(v) {
				return nil, domain.Invalidf("question %d: %q is not a valid option", q.ID, v)
			}
			if seen[v] {
				return nil, domain.Invalidf("question %d: %q selected more than once", q.ID, v)
			}
			seen[v] = true
		}
		return append([]string(nil), raw...), nil

	default:
		return nil, domain.Invalidf("question %d has unsupported type %q", q.ID, q.Type)
	}
}
