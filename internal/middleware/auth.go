package middleware

import (
	"net/http"
	"strings"

	"knowyourplate/internal/auth"
	"knowyourplate/internal/domain"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenVerifier turns a session token into an identity, or nil.
type TokenVerifier interface {
	VerifyToken(token string) *auth.Identity
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(domain.SessionCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthRequired validates the session token and stores the identity in context.
func AuthRequired(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := v.VerifyToken(TokenFromRequest(c))
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(identityKey, id)
		c.Set("user_id", id.UserID)
		c.Next()
	}
}

// GetIdentity returns the authenticated identity (must be used after AuthRequired).
func GetIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}

// GetUserID returns the authenticated user ID from context (must be used after AuthRequired).
func GetUserID(c *gin.Context) uint {
	if id := GetIdentity(c); id != nil {
		return id.UserID
	}
	return 0
}
