package service

import (
	"context"
	"fmt"
)

type UserReferrals struct {
	ReferralCode  string `json:"referralCode"`
	ReferralCount int64  `json:"referralCount"`
}

// ReferralService answers a user's questions about their own referral code.
type ReferralService struct {
	users UserRepository
}

func NewReferralService(users UserRepository) *ReferralService {
	return &ReferralService{users: users}
}

// GetUserReferrals returns the user's code and how many users registered with it.
func (s *ReferralService) GetUserReferrals(ctx context.Context, userID uint) (*UserReferrals, error) {
	code, err := s.GetReferralCode(ctx, userID)
	if err != nil {
		return nil, err
	}
	n, err := s.users.CountReferredBy(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("count referrals: %w", err)
	}
	return &UserReferrals{ReferralCode: code, ReferralCount: n}, nil
}

func (s *ReferralService) GetReferralCode(ctx context.Context, userID uint) (string, error) {
	u, err := getUser(ctx, s.users, userID)
	if err != nil {
		return "", err
	}
	return u.ReferralCode, nil
}
