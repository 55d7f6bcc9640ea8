package auth

import (
	"errors"
	"fmt"
	"time"

	"knowyourplate/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload.
type Claims struct {
	UserID       uint   `json:"id"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
	ReferralCode string `json:"referralCode"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

func GenerateToken(cfg *config.JWTConfig, userID uint, email string, isAdmin bool, referralCode string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:       userID,
		Email:        email,
		IsAdmin:      isAdmin,
		ReferralCode: referralCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken validates signature, algorithm, issuer and expiry. Every failure
// is reported as ErrInvalidToken.
func ParseToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(cfg.Issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Identity is the authenticated caller carried by a verified token.
type Identity struct {
	UserID       uint   `json:"id"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
	ReferralCode string `json:"referralCode"`
}

func (c *Claims) Identity() *Identity {
	return &Identity{UserID: c.UserID, Email: c.Email, IsAdmin: c.IsAdmin, ReferralCode: c.ReferralCode}
}

// VerifyToken returns the identity for a valid token and nil otherwise.
func VerifyToken(cfg *config.JWTConfig, tokenString string) *Identity {
	if tokenString == "" {
		return nil
	}
	claims, err := ParseToken(cfg, tokenString)
	if err != nil {
		return nil
	}
	return claims.Identity()
}
