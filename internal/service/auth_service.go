package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"knowyourplate/config"
	"knowyourplate/internal/auth"
	"knowyourplate/internal/domain"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/metrics"
	"knowyourplate/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists   = domain.NewError(domain.ErrConflict, "email already registered")
	ErrInvalidCreds  = domain.NewError(domain.ErrUnauthorized, "invalid email or password")
	ErrUserNotFound  = domain.NewError(domain.ErrNotFound, "user not found")
	ErrMissingFields = domain.NewError(domain.ErrInvalidArgument, "email and password are required")
	ErrPasswordLong  = domain.NewError(domain.ErrInvalidArgument, "password must be at most 72 bytes")
)

const referralCodeAttempts = 10

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CountReferredBy(ctx context.Context, code string) (int64, error)
}

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	ReferredBy string
}

type AuthService struct {
	cfg     *config.JWTConfig
	users   UserRepository
	audit   auditor
	metrics *metrics.Metrics
	log     *logger.Logger
	newCode func() (string, error)
}

func NewAuthService(cfg *config.JWTConfig, users UserRepository, audit AuditRepository, m *metrics.Metrics, log *logger.Logger) *AuthService {
	return &AuthService{
		cfg:     cfg,
		users:   users,
		audit:   auditor{repo: audit, log: log},
		metrics: m,
		log:     log,
		newCode: auth.GenerateReferralCode,
	}
}

// Register creates a non-admin user with a fresh referral code. The referrer
// code is stored as given after normalisation; it is not checked against
// existing users.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, actor Actor) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if u.Name == "" {
		u.Name = u.DisplayName()
	}
	if ref := strings.ToUpper(strings.TrimSpace(in.ReferredBy)); ref != "" {
		u.ReferredBy = &ref
	}

	if err := s.createWithUniqueCode(ctx, u); err != nil {
		return nil, err
	}

	s.audit.record(ctx, Actor{UserID: u.ID, IP: actor.IP, UserAgent: actor.UserAgent}, domain.AuditRegister, "user", u.ID, nil)
	if s.metrics != nil {
		s.metrics.Registrations.WithLabelValues(strconv.FormatBool(u.ReferredBy != nil)).Inc()
	}
	s.log.WithUserID(u.ID).WithFields(logrus.Fields{
		"referral_code": u.ReferralCode,
		"referred":      u.ReferredBy != nil,
	}).Info("user registered")
	return u, nil
}

// createWithUniqueCode retries the insert with a new code while the failure
// is a referral code collision.
func (s *AuthService) createWithUniqueCode(ctx context.Context, u *models.User) error {
	for i := 0; i < referralCodeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return err
		}
		u.ReferralCode = code
		err = s.users.Create(ctx, u)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create user: %w", err)
		}
		// The duplicate may be the email from a concurrent registration.
		if _, lookupErr := s.users.GetByEmail(ctx, u.Email); lookupErr == nil {
			return ErrEmailExists
		}
	}
	return fmt.Errorf("failed to generate a unique referral code after %d attempts", referralCodeAttempts)
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password give the same error.
func (s *AuthService) Login(ctx context.Context, email, password string, actor Actor) (*models.User, string, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCreds
		}
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCreds
	}
	token, err := auth.GenerateToken(s.cfg, u.ID, u.Email, u.IsAdmin, u.ReferralCode)
	if err != nil {
		return nil, "", err
	}
	s.audit.record(ctx, Actor{UserID: u.ID, IP: actor.IP, UserAgent: actor.UserAgent}, domain.AuditLogin, "user", u.ID, nil)
	return u, token, nil
}

// VerifyToken never errors; any invalid token yields nil.
func (s *AuthService) VerifyToken(token string) *auth.Identity {
	return auth.VerifyToken(s.cfg, token)
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return getUser(ctx, s.users, id)
}

func getUser(ctx context.Context, users UserRepository, id uint) (*models.User, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
