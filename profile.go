package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getProfile returns the authenticated user's profile. bmi, bmr, tdee and
// daily_calories are included once every profile field is set.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	view, err := h.profiles.Get(c, c.GetInt("user_id"))
	if err != nil {
		handleError(c, "getProfile", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// updateProfile writes only the provided profile fields.
// PUT|PATCH /api/profile. An update that would leave some fields set and
// others empty is rejected with 400.
func (h *Handler) updateProfile(c *gin.Context) {
	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.profiles.Update(c, c.GetInt("user_id"), body.patch())
	if err != nil {
		handleError(c, "updateProfile", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
