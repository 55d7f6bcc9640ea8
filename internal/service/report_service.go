package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"knowyourplate/internal/domain"
	"knowyourplate/internal/repository"
)

type ReportRepository interface {
	LoadResponses(ctx context.Context) (*repository.ResponseData, error)
	ReferralStats(ctx context.Context) ([]repository.ReferralStat, error)
	ReferralTotals(ctx context.Context) (users, referred int64, err error)
}

// ResponseAnswer is one answer joined with its question.
type ResponseAnswer struct {
	QuestionID   uint     `json:"questionId"`
	QuestionText string   `json:"questionText"`
	QuestionType string   `json:"questionType"`
	Order        int      `json:"order"`
	Values       []string `json:"-"`
}

// Answer renders list answers for multi-select questions and a plain string
// otherwise.
func (a ResponseAnswer) Answer() any {
	if domain.IsMultiSelect(a.QuestionType) {
		return a.Values
	}
	if len(a.Values) == 0 {
		return ""
	}
	return a.Values[0]
}

func (a ResponseAnswer) MarshalJSON() ([]byte, error) {
	type plain ResponseAnswer
	return json.Marshal(struct {
		plain
		Answer any `json:"answer"`
	}{plain(a), a.Answer()})
}

// UserResponse is one user's submission with their profile fields.
type UserResponse struct {
	UserID       uint             `json:"userId"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	ReferralCode string           `json:"referralCode"`
	ReferredBy   *string          `json:"referredBy"`
	UserCreated  time.Time        `json:"userCreatedAt"`
	SubmittedAt  time.Time        `json:"submittedAt"`
	Answers      []ResponseAnswer `json:"answers"`
}

type ReferralReport struct {
	Stats          []repository.ReferralStat `json:"referralStats"`
	TotalUsers     int64                     `json:"totalUsers"`
	TotalReferrals int64                     `json:"totalReferrals"`
}

type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// ListResponses returns every submission, latest first, with answers in
// question order.
func (s *ReportService) ListResponses(ctx context.Context) ([]UserResponse, error) {
	data, err := s.repo.LoadResponses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	return assembleResponses(data), nil
}

func assembleResponses(data *repository.ResponseData) []UserResponse {
	users := make(map[uint]int, len(data.Users))
	for i, u := range data.Users {
		users[u.ID] = i
	}
	questions := make(map[uint]int, len(data.Questions))
	for i, q := range data.Questions {
		questions[q.ID] = i
	}
	bySubmission := make(map[uint][]ResponseAnswer)
	for _, a := range data.Answers {
		ra := ResponseAnswer{QuestionID: a.QuestionID, Values: a.Value}
		if qi, ok := questions[a.QuestionID]; ok {
			q := data.Questions[qi]
			ra.QuestionText = q.Text
			ra.QuestionType = q.Type
			ra.Order = q.OrderIndex
		}
		bySubmission[a.SubmissionID] = append(bySubmission[a.SubmissionID], ra)
	}

	out := make([]UserResponse, 0, len(data.Submissions))
	for _, sub := range data.Submissions {
		r := UserResponse{UserID: sub.UserID, SubmittedAt: sub.SubmittedAt}
		if ui, ok := users[sub.UserID]; ok {
			u := data.Users[ui]
			r.Name = u.DisplayName()
			r.Email = u.Email
			r.ReferralCode = u.ReferralCode
			r.ReferredBy = u.ReferredBy
			r.UserCreated = u.CreatedAt
		}
		answers := bySubmission[sub.ID]
		sort.SliceStable(answers, func(i, j int) bool { return answers[i].Order < answers[j].Order })
		if answers == nil {
			answers = []ResponseAnswer{}
		}
		r.Answers = answers
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out
}

// ListReferralStats ranks non-admin users by how many users registered with
// their code.
func (s *ReportService) ListReferralStats(ctx context.Context) (*ReferralReport, error) {
	stats, err := s.repo.ReferralStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("referral stats: %w", err)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].ReferralCount != stats[j].ReferralCount {
			return stats[i].ReferralCount > stats[j].ReferralCount
		}
		return stats[i].CreatedAt.Before(stats[j].CreatedAt)
	})
	users, referred, err := s.repo.ReferralTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("referral totals: %w", err)
	}
	if stats == nil {
		stats = []repository.ReferralStat{}
	}
	return &ReferralReport{Stats: stats, TotalUsers: users, TotalReferrals: referred}, nil
}
