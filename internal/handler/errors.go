package handler

import (
	"errors"
	"net/http"

	"knowyourplate/internal/domain"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/middleware"
	"knowyourplate/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps an error kind to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": reason}. Internal failures are logged with the
// request id and never leak their cause.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithRequestID(middleware.GetRequestID(c)).WithError(err).
			WithField("path", c.FullPath()).Error("request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// actorFrom describes the caller for audit entries.
func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		UserID:    middleware.GetUserID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
