package handler

import (
	"context"
	"net/http"

	"knowyourplate/internal/logger"
	"knowyourplate/internal/service"
	"knowyourplate/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type TimerService interface {
	GetTimerState(ctx context.Context) (*service.TimerView, error)
	SetTimerState(ctx context.Context, actor service.Actor, action string, days *int) (*service.TimerView, error)
}

type TimerHandler struct {
	svc      TimerService
	hub      *ws.Hub
	upgrader *websocket.Upgrader
	log      *logger.Logger
}

func NewTimerHandler(svc TimerService, hub *ws.Hub, upgrader *websocket.Upgrader, log *logger.Logger) *TimerHandler {
	return &TimerHandler{svc: svc, hub: hub, upgrader: upgrader, log: log}
}

type TimerRequest struct {
	Action string `json:"action" binding:"required"`
	Days   *int   `json:"days"`
}

// Get GET /timer
func (h *TimerHandler) Get(c *gin.Context) {
	v, err := h.svc.GetTimerState(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Update POST /timer (admin)
func (h *TimerHandler) Update(c *gin.Context) {
	var req TimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.svc.SetTimerState(c.Request.Context(), actorFrom(c), req.Action, req.Days)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Timer updated successfully",
		"action":      req.Action,
		"endDate":     v.EndDate,
		"isActive":    v.IsActive,
		"lastUpdated": v.LastUpdated,
		"isOpen":      v.IsOpen,
		"remaining":   v.Remaining,
	})
}
