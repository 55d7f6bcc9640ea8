package auth

import (
	"regexp"
	"testing"
	"time"

	"knowyourplate/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret-0123456789", Expiry: time.Hour, Issuer: "knowyourplate"}
}

func TestToken_RoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, 42, "a@example.com", true, "KYPABC123")
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "KYPABC123", claims.ReferralCode)
}

func TestParseToken_Failures(t *testing.T) {
	cfg := testJWTConfig()

	expired := &config.JWTConfig{Secret: cfg.Secret, Expiry: -time.Minute, Issuer: cfg.Issuer}
	expiredToken, err := GenerateToken(expired, 1, "a@example.com", false, "KYPAAAAAA")
	require.NoError(t, err)

	otherSecret := &config.JWTConfig{Secret: "another-secret-0123456789", Expiry: time.Hour, Issuer: cfg.Issuer}
	forged, err := GenerateToken(otherSecret, 1, "a@example.com", true, "KYPAAAAAA")
	require.NoError(t, err)

	otherIssuer := &config.JWTConfig{Secret: cfg.Secret, Expiry: time.Hour, Issuer: "someone-else"}
	wrongIssuer, err := GenerateToken(otherIssuer, 1, "a@example.com", false, "KYPAAAAAA")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":      expiredToken,
		"wrong secret": forged,
		"wrong issuer": wrongIssuer,
		"alg none":     noneToken,
		"garbage":      "not-a-token",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			claims, err := ParseToken(cfg, tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestGenerateReferralCode(t *testing.T) {
	pattern := regexp.MustCompile(`^KYP[A-Z0-9]{6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateReferralCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 190)
}

func TestVerifyToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateToken(cfg, 9, "u@example.com", false, "KYPZZZ999")
	require.NoError(t, err)

	id := VerifyToken(cfg, token)
	require.NotNil(t, id)
	assert.Equal(t, &Identity{UserID: 9, Email: "u@example.com", ReferralCode: "KYPZZZ999"}, id)

	assert.Nil(t, VerifyToken(cfg, ""))
	assert.Nil(t, VerifyToken(cfg, token+"x"))
}
