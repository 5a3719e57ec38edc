package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lg/nutri-track-api/internal/model"
	"lg/nutri-track-api/internal/realtime"
)

// getTodayLog returns today's log with its food entries, creating an empty
// log on first access.
// GET /api/nutrition/today.
func (h *Handler) getTodayLog(c *gin.Context) {
	l, err := h.logs.TodayLog(c, c.GetInt("user_id"))
	if err != nil {
		handleError(c, "getTodayLog", err)
		return
	}
	c.JSON(http.StatusOK, logResponse(l))
}

// addFoodEntry appends a food entry to today's log and bumps its totals.
// POST /api/nutrition/food. Nutrient values are for the whole quantity.
func (h *Handler) addFoodEntry(c *gin.Context) {
	var body foodEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	userID := c.GetInt("user_id")
	l, entryID, err := h.logs.AddFoodEntryToday(c, userID, body.entry())
	if err != nil {
		handleError(c, "addFoodEntry", err)
		return
	}
	resp := logResponse(l)
	resp["entry_id"] = entryID

	h.hub.Broadcast(userID, realtime.EventFoodEntryAdded, resp)
	c.JSON(http.StatusCreated, resp)
}

// patchDailyLog sets water intake, exercise duration or status on today's log.
// PUT|PATCH /api/nutrition/daily-log. Nutrient totals are not settable here.
func (h *Handler) patchDailyLog(c *gin.Context) {
	var body dailyLogPatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	userID := c.GetInt("user_id")
	l, err := h.logs.PatchToday(c, userID, body.patch())
	if err != nil {
		handleError(c, "patchDailyLog", err)
		return
	}
	resp := logResponse(l)
	h.hub.Broadcast(userID, realtime.EventDailyLogUpdated, resp)
	c.JSON(http.StatusOK, resp)
}

// getLogEntries lists a log's entries, newest first.
// GET /api/nutrition/logs/:id/entries. Logs owned by other users are 404.
func (h *Handler) getLogEntries(c *gin.Context) {
	logID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || logID <= 0 {
		apiError(c, http.StatusBadRequest, "invalid log id")
		return
	}

	entries, err := h.logs.GetOwnedEntries(c, c.GetInt("user_id"), logID)
	if err != nil {
		handleError(c, "getLogEntries", err)
		return
	}
	if entries == nil {
		entries = []model.FoodEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// getWeeklyProgress summarizes the Sunday-to-Saturday week containing date.
// GET /api/nutrition/weekly-progress?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getWeeklyProgress(c *gin.Context) {
	var ref model.DateOnly
	if raw := c.Query("date"); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		ref = d
	}

	summary, err := h.weeks.WeeklySummary(c, c.GetInt("user_id"), ref)
	if err != nil {
		handleError(c, "getWeeklyProgress", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// logResponse splits a log from its entries so food_entries is always
// present in the body, as [] for a log with nothing logged yet.
func logResponse(l model.DailyLog) gin.H {
	entries := l.FoodEntries
	if entries == nil {
		entries = []model.FoodEntry{}
	}
	l.FoodEntries = nil
	return gin.H{"daily_log": l, "food_entries": entries}
}
