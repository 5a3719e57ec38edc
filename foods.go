package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutri-track-api/internal/foods"
)

// getFoodInfo looks a food up by exact name, ignoring case, and attaches the
// health tip for its rating.
// GET /api/nutrition/food-info/:foodName. 404 when the food isn't in the table.
func (h *Handler) getFoodInfo(c *gin.Context) {
	f, ok := h.foods.Lookup(c.Param("foodName"))
	if !ok {
		apiError(c, http.StatusNotFound, "food not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"food": f, "health_tip": foods.HealthTip(f.Rating)})
}

// listFoods returns the food table's names, sorted.
// GET /api/foods?prefix=ch narrows to names starting with the prefix.
func (h *Handler) listFoods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"foods": h.foods.Names(c.Query("prefix"))})
}
