package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lg/nutri-track-api/internal/model"
	"lg/nutri-track-api/internal/realtime"
)

// generateRecommendations replaces the user's active recommendations with a
// fresh batch derived from the current profile.
// POST /api/recommendations/generate. 422 when the profile is incomplete.
func (h *Handler) generateRecommendations(c *gin.Context) {
	userID := c.GetInt("user_id")
	recs, err := h.recs.Regenerate(c, userID)
	if err != nil {
		handleError(c, "generateRecommendations", err)
		return
	}
	if recs == nil {
		recs = []model.Recommendation{}
	}

	h.hub.Broadcast(userID, realtime.EventRecommendationsGenerated, gin.H{"count": len(recs)})
	c.JSON(http.StatusCreated, gin.H{"recommendations": recs})
}

// getRecommendations lists active recommendations, high priority first.
// GET /api/recommendations?include_inactive=true also returns earlier
// batches, newest first.
func (h *Handler) getRecommendations(c *gin.Context) {
	includeInactive := false
	if raw := c.Query("include_inactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apiError(c, http.StatusBadRequest, "include_inactive must be a boolean")
			return
		}
		includeInactive = v
	}

	userID := c.GetInt("user_id")
	var (
		recs []model.Recommendation
		err  error
	)
	if includeInactive {
		recs, err = h.recs.History(c, userID)
	} else {
		recs, err = h.recs.Active(c, userID)
	}
	if err != nil {
		handleError(c, "getRecommendations", err)
		return
	}
	if recs == nil {
		recs = []model.Recommendation{}
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// getNutritionPlan returns calorie and macro targets, food lists and a meal
// timing split for the user's goal.
// GET /api/recommendations/nutrition-plan. 422 when the profile is incomplete.
func (h *Handler) getNutritionPlan(c *gin.Context) {
	plan, err := h.recs.NutritionPlan(c, c.GetInt("user_id"))
	if err != nil {
		handleError(c, "getNutritionPlan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
