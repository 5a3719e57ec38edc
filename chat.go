package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// chat answers a nutrition question with the user's profile as context.
// POST /api/chatbot/chat. Body: { "message": "..." }. Upstream failures still
// return 200 with the fallback greeting and "fallback": true.
func (h *Handler) chat(c *gin.Context) {
	var body chatRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	userID := c.GetInt("user_id")
	p, err := h.store.FindProfile(c, userID)
	if err != nil {
		handleError(c, "chat", err)
		return
	}

	c.JSON(http.StatusOK, h.assistant.Reply(c, c.GetString("username"), p, body.Message))
}
