package main

import (
	"github.com/gin-gonic/gin"
)

// serveWS upgrades to a websocket that receives the user's log and
// recommendation events.
// GET /api/ws?token=... (browsers can't set the Authorization header here).
func (h *Handler) serveWS(c *gin.Context) {
	h.hub.Serve(c.Writer, c.Request, c.GetInt("user_id"))
}
