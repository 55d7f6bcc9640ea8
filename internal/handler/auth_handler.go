package handler

import (
	"context"
	"net/http"

	"knowyourplate/config"
	"knowyourplate/internal/domain"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/middleware"
	"knowyourplate/internal/models"
	"knowyourplate/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput, actor service.Actor) (*models.User, error)
	Login(ctx context.Context, email, password string, actor service.Actor) (*models.User, string, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type AuthHandler struct {
	svc    AuthService
	jwt    *config.JWTConfig
	secure bool
	log    *logger.Logger
}

func NewAuthHandler(svc AuthService, jwt *config.JWTConfig, secureCookie bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, jwt: jwt, secure: secureCookie, log: log}
}

type RegisterRequest struct {
	Name       string `json:"name" binding:"max=100"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	ReferredBy string `json:"referredBy" binding:"max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// sessionUser is the public view of the logged-in user.
type sessionUser struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
	ReferralCode string `json:"referralCode"`
}

func toSessionUser(u *models.User) sessionUser {
	return sessionUser{ID: u.ID, Name: u.DisplayName(), Email: u.Email, IsAdmin: u.IsAdmin, ReferralCode: u.ReferralCode}
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		ReferredBy: req.ReferredBy,
	}, actorFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "User registered successfully",
		"userId":       u.ID,
		"referralCode": u.ReferralCode,
	})
}

// Login POST /auth/login sets the session cookie and also returns the token
// for clients that send it as a bearer header.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, actorFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.setSessionCookie(c, token, int(h.jwt.Expiry.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    toSessionUser(u),
		"token":   token,
	})
}

// Logout POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.svc.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toSessionUser(u)})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(domain.SessionCookie, value, maxAge, "/", "", h.secure, true)
}

var _ AuthService = (*service.AuthService)(nil)
