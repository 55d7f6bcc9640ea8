package handler

import (
	"knowyourplate/internal/service"
	"knowyourplate/internal/ws"

	"github.com/gin-gonic/gin"
)

// Stream GET /ws/timer upgrades to a websocket. The current state is sent on
// connect and every admin change is pushed afterwards.
func (h *TimerHandler) Stream(c *gin.Context) {
	v, err := h.svc.GetTimerState(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	initial, err := ws.Encode(service.TimerEvent, v)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		return
	}
	h.hub.Serve(conn, initial)
}
