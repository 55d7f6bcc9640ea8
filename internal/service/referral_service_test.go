package service

import (
	"context"
	"testing"

	"knowyourplate/internal/domain"
	"knowyourplate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserReferrals(t *testing.T) {
	ctx := context.Background()
	users := &fakeUserRepo{}
	owner := &models.User{Email: "owner@example.com", ReferralCode: "KYPOWNER"}
	require.NoError(t, users.Create(ctx, owner))
	code := "KYPOWNER"
	require.NoError(t, users.Create(ctx, &models.User{Email: "a@example.com", ReferralCode: "KYPA0001", ReferredBy: &code}))
	require.NoError(t, users.Create(ctx, &models.User{Email: "b@example.com", ReferralCode: "KYPB0002", ReferredBy: &code}))
	other := "KYPOTHER"
	require.NoError(t, users.Create(ctx, &models.User{Email: "c@example.com", ReferralCode: "KYPC0000", ReferredBy: &other}))

	svc := NewReferralService(users)

	out, err := svc.GetUserReferrals(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "KYPOWNER", out.ReferralCode)
	assert.Equal(t, int64(2), out.ReferralCount)

	gotCode, err := svc.GetReferralCode(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "KYPOWNER", gotCode)
}

func TestGetUserReferrals_UnknownUser(t *testing.T) {
	svc := NewReferralService(&fakeUserRepo{})

	_, err := svc.GetUserReferrals(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
