package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"lg/nutri-track-api/internal/assistant"
	"lg/nutri-track-api/internal/config"
	"lg/nutri-track-api/internal/dailylog"
	"lg/nutri-track-api/internal/foods"
	"lg/nutri-track-api/internal/model"
	"lg/nutri-track-api/internal/profile"
	"lg/nutri-track-api/internal/realtime"
	"lg/nutri-track-api/internal/recommend"
	"lg/nutri-track-api/internal/store"
	"lg/nutri-track-api/internal/weekly"
)

// Handler holds shared dependencies (store, services, config) for all route handlers.
type Handler struct {
	store     store.Store
	profiles  *profile.Service
	logs      *dailylog.Service
	weeks     *weekly.Service
	recs      *recommend.Engine
	foods     *foods.Table
	assistant *assistant.Assistant
	hub       *realtime.Hub

	jwtSecret []byte
	jwtTTL    time.Duration
}

// newHandler wires every service onto st using the settings in cfg.
func newHandler(st store.Store, cfg config.Config) *Handler {
	return &Handler{
		store:     st,
		profiles:  profile.NewService(st),
		logs:      dailylog.NewService(st, cfg.Location),
		weeks:     weekly.NewService(st, cfg.Location),
		recs:      recommend.NewEngine(st),
		foods:     foods.Default(),
		assistant: assistant.New(assistant.NewClient(cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatModel)),
		hub:       realtime.NewHub(),
		jwtSecret: []byte(cfg.JWTSecret),
		jwtTTL:    cfg.JWTTTL,
	}
}

/* ─── Error helpers ──────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// handleError maps the core error kinds to HTTP statuses. Anything
// unrecognized is logged under fn and reported as a bare 500.
func handleError(c *gin.Context, fn string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrProfileIncomplete):
		apiError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, model.ErrNotFound):
		apiError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrConflict):
		apiError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("[%s] %v", fn, err)
		apiError(c, http.StatusInternalServerError, "internal server error")
	}
}

// bindError reports a ShouldBindJSON failure. Validation failures name the
// first offending field; anything else is a malformed body.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fmt.Sprintf("%s failed %q validation", jsonFieldName(fe), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s failed %q validation (%s)", jsonFieldName(fe), fe.Tag(), fe.Param())
		}
		apiError(c, http.StatusBadRequest, msg)
		return
	}
	apiError(c, http.StatusBadRequest, "invalid request body")
}

// jsonFieldName maps a struct field name back to its snake_case JSON key.
func jsonFieldName(fe validator.FieldError) string {
	if name, ok := requestFieldNames[fe.Field()]; ok {
		return name
	}
	return fe.Field()
}

/* ─── Routes ─────────────────────────────────────────────────────────── */

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.updateProfile)
	api.PATCH("/profile", h.updateProfile)

	api.GET("/nutrition/today", h.getTodayLog)
	api.POST("/nutrition/food", h.addFoodEntry)
	api.PUT("/nutrition/daily-log", h.patchDailyLog)
	api.PATCH("/nutrition/daily-log", h.patchDailyLog)
	api.GET("/nutrition/logs/:id/entries", h.getLogEntries)
	api.GET("/nutrition/weekly-progress", h.getWeeklyProgress)
	api.GET("/nutrition/food-info/:foodName", h.getFoodInfo)
	api.GET("/foods", h.listFoods)

	api.POST("/recommendations/generate", h.generateRecommendations)
	api.GET("/recommendations", h.getRecommendations)
	api.GET("/recommendations/nutrition-plan", h.getNutritionPlan)

	api.POST("/chatbot/chat", h.chat)
	api.GET("/ws", h.serveWS)
}
