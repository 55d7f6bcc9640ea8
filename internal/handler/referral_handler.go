package handler

import (
	"context"
	"net/http"

	"knowyourplate/internal/logger"
	"knowyourplate/internal/middleware"
	"knowyourplate/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralService interface {
	GetUserReferrals(ctx context.Context, userID uint) (*service.UserReferrals, error)
	GetReferralCode(ctx context.Context, userID uint) (string, error)
}

type ReferralHandler struct {
	svc ReferralService
	log *logger.Logger
}

func NewReferralHandler(svc ReferralService, log *logger.Logger) *ReferralHandler {
	return &ReferralHandler{svc: svc, log: log}
}

// GetMyReferrals GET /user/referrals
func (h *ReferralHandler) GetMyReferrals(c *gin.Context) {
	out, err := h.svc.GetUserReferrals(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetMyReferralCode GET /user/referral
func (h *ReferralHandler) GetMyReferralCode(c *gin.Context) {
	code, err := h.svc.GetReferralCode(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"referralCode": code})
}
