package service

import (
	"context"
	"sync"
	"time"

	"knowyourplate/internal/models"
	"knowyourplate/internal/repository"

	"gorm.io/gorm"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  []*models.User
	nextID uint
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.ReferralCode == u.ReferralCode {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	u.ID = r.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) CountReferredBy(_ context.Context, code string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.ReferredBy != nil && *u.ReferredBy == code {
			n++
		}
	}
	return n, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, l *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *l)
	return nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeTimerRepo struct {
	mu    sync.Mutex
	state *models.TimerState
	err   error
}

func (r *fakeTimerRepo) Get(_ context.Context) (*models.TimerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.state == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r.state
	return &cp, nil
}

func (r *fakeTimerRepo) Save(_ context.Context, t *models.TimerState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = models.TimerStateID
	cp := *t
	r.state = &cp
	return nil
}

func (r *fakeTimerRepo) CreateIfAbsent(_ context.Context, t *models.TimerState) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != nil {
		return false, nil
	}
	t.ID = models.TimerStateID
	cp := *t
	r.state = &cp
	return true, nil
}

type staticGate bool

func (g staticGate) IsOpen(context.Context) (bool, error) { return bool(g), nil }

type fakeNotifier struct {
	mu     sync.Mutex
	events []any
}

func (n *fakeNotifier) Broadcast(_ string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, payload)
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []models.Question
	answers   map[uint]int64
	nextID    uint
}

func (r *fakeQuestionRepo) ListActive(_ context.Context) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Question
	for _, q := range r.questions {
		if q.IsActive {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) ListAll(_ context.Context) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Question(nil), r.questions...), nil
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id uint) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.questions {
		if q.ID == id {
			cp := q
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuestionRepo) orderTaken(order int, except uint) bool {
	for _, q := range r.questions {
		if q.OrderIndex == order && q.ID != except {
			return true
		}
	}
	return false
}

func (r *fakeQuestionRepo) Create(_ context.Context, q *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.orderTaken(q.OrderIndex, 0) {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	q.ID = r.nextID
	r.questions = append(r.questions, *q)
	return nil
}

func (r *fakeQuestionRepo) Update(_ context.Context, q *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.orderTaken(q.OrderIndex, q.ID) {
		return gorm.ErrDuplicatedKey
	}
	for i := range r.questions {
		if r.questions[i].ID == q.ID {
			r.questions[i] = *q
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.questions {
		if r.questions[i].ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeQuestionRepo) CountAnswers(_ context.Context, id uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answers[id], nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[uint]*models.Submission
	answers     []models.Answer
	nextID      uint
	lookupDelay time.Duration
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: map[uint]*models.Submission{}}
}

func (r *fakeSubmissionRepo) GetByUserID(_ context.Context, userID uint) (*models.Submission, error) {
	r.mu.Lock()
	s, ok := r.submissions[userID]
	r.mu.Unlock()
	// Widens the window between the existence check and the insert.
	time.Sleep(r.lookupDelay)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubmissionRepo) CreateWithAnswers(_ context.Context, sub *models.Submission, answers []models.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submissions[sub.UserID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	sub.ID = r.nextID
	for i := range answers {
		answers[i].SubmissionID = sub.ID
		answers[i].UserID = sub.UserID
	}
	cp := *sub
	r.submissions[sub.UserID] = &cp
	r.answers = append(r.answers, answers...)
	return nil
}

func (r *fakeSubmissionRepo) count() (subs, answers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submissions), len(r.answers)
}

// fakeDrawRepo derives eligibility from users and submissions the same way
// the SQL join does.
type fakeDrawRepo struct {
	users       []models.User
	submissions []models.Submission
	draws       []models.Draw
}

func (r *fakeDrawRepo) ListEligible(_ context.Context) ([]repository.Entrant, error) {
	byUser := map[uint]models.Submission{}
	for _, s := range r.submissions {
		byUser[s.UserID] = s
	}
	var out []repository.Entrant
	for _, u := range r.users {
		s, ok := byUser[u.ID]
		if !ok || !s.IsEligibleForDraw || u.IsAdmin {
			continue
		}
		out = append(out, repository.Entrant{ID: u.ID, Name: u.Name, Email: u.Email, ReferralCode: u.ReferralCode, SubmittedAt: s.SubmittedAt})
	}
	return out, nil
}

func (r *fakeDrawRepo) Create(_ context.Context, d *models.Draw) error {
	d.ID = uint(len(r.draws) + 1)
	r.draws = append(r.draws, *d)
	return nil
}

func (r *fakeDrawRepo) List(_ context.Context, limit, offset int) ([]models.Draw, error) {
	var out []models.Draw
	for i := len(r.draws) - 1; i >= 0; i-- {
		out = append(out, r.draws[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeReportRepo struct {
	data     *repository.ResponseData
	stats    []repository.ReferralStat
	users    int64
	referred int64
}

func (r *fakeReportRepo) LoadResponses(context.Context) (*repository.ResponseData, error) {
	return r.data, nil
}

func (r *fakeReportRepo) ReferralStats(context.Context) ([]repository.ReferralStat, error) {
	return append([]repository.ReferralStat(nil), r.stats...), nil
}

func (r *fakeReportRepo) ReferralTotals(context.Context) (int64, int64, error) {
	return r.users, r.referred, nil
}
