package repository

import (
	"context"
	"time"

	"knowyourplate/internal/models"

	"gorm.io/gorm"
)

// ResponseData is the raw material for the aggregated response report.
type ResponseData struct {
	Submissions []models.Submission
	Users       []models.User
	Answers     []models.Answer
	Questions   []models.Question
}

// ReferralStat is one row of the referral leaderboard.
type ReferralStat struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ReferralCode  string    `json:"referralCode"`
	CreatedAt     time.Time `json:"createdAt"`
	ReferralCount int64     `json:"referralCount"`
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// LoadResponses reads every submission with its owners, answers and the
// questions those answers reference. Inactive questions are included so old
// answers keep their text.
func (r *ReportRepository) LoadResponses(ctx context.Context) (*ResponseData, error) {
	db := r.db.WithContext(ctx)
	out := &ResponseData{}

	if err := db.Order("submitted_at DESC").Find(&out.Submissions).Error; err != nil {
		return nil, err
	}
	if len(out.Submissions) == 0 {
		return out, nil
	}

	userIDs := make([]uint, 0, len(out.Submissions))
	subIDs := make([]uint, 0, len(out.Submissions))
	for _, s := range out.Submissions {
		userIDs = append(userIDs, s.UserID)
		subIDs = append(subIDs, s.ID)
	}
	if err := db.Where("id IN ?", userIDs).Find(&out.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Where("submission_id IN ?", subIDs).Find(&out.Answers).Error; err != nil {
		return nil, err
	}
	if err := db.Order("order_index ASC").Find(&out.Questions).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReferralStats counts, for every non-admin user, the users who registered
// with their code. Highest count first, earliest registration breaks ties.
func (r *ReportRepository) ReferralStats(ctx context.Context) ([]ReferralStat, error) {
	var list []ReferralStat
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.id, u.name, u.email, u.referral_code, u.created_at, COUNT(ref.id) AS referral_count").
		Joins("LEFT JOIN users AS ref ON ref.referred_by = u.referral_code").
		Where("u.is_admin = ?", false).
		Group("u.id, u.name, u.email, u.referral_code, u.created_at").
		Order("referral_count DESC, u.created_at ASC").
		Scan(&list).Error
	return list, err
}

// ReferralTotals returns the number of non-admin users and the number of
// users who registered with any referral code.
func (r *ReportRepository) ReferralTotals(ctx context.Context) (users, referred int64, err error) {
	db := r.db.WithContext(ctx)
	if err = db.Model(&models.User{}).Where("is_admin = ?", false).Count(&users).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&models.User{}).Where("referred_by IS NOT NULL").Count(&referred).Error; err != nil {
		return 0, 0, err
	}
	return users, referred, nil
}
