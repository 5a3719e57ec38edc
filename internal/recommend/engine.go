package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lg/nutri-track-api/internal/metrics"
	"lg/nutri-track-api/internal/model"
)

// Store is the persistence the engine needs.
type Store interface {
	FindProfile(ctx context.Context, userID int) (model.Profile, error)
	ReplaceRecommendations(ctx context.Context, userID int, batch []model.Recommendation) ([]model.Recommendation, error)
	ListRecommendations(ctx context.Context, userID int, includeInactive bool) ([]model.Recommendation, error)
}

type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(s Store) *Engine {
	return &Engine{store: s, now: time.Now}
}

// Regenerate evaluates the rules against the user's current profile and
// replaces their active batch with the result. Previous batches stay on record
// as inactive rows.
func (e *Engine) Regenerate(ctx context.Context, userID int) ([]model.Recommendation, error) {
	p, err := e.store.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap, err := metrics.Compute(p)
	if err != nil {
		return nil, err
	}
	batch, err := Generate(p, snap.BMI)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New()
	createdAt := e.now().UTC()
	for i := range batch {
		batch[i].UserID = userID
		batch[i].BatchID = batchID
		batch[i].CreatedAt = createdAt
	}
	return e.store.ReplaceRecommendations(ctx, userID, batch)
}

// Active returns the user's current batch, high priority first.
func (e *Engine) Active(ctx context.Context, userID int) ([]model.Recommendation, error) {
	return e.store.ListRecommendations(ctx, userID, false)
}

// History returns every batch ever generated for the user, newest first.
func (e *Engine) History(ctx context.Context, userID int) ([]model.Recommendation, error) {
	return e.store.ListRecommendations(ctx, userID, true)
}

// NutritionPlan loads the user's profile and builds their plan.
func (e *Engine) NutritionPlan(ctx context.Context, userID int) (Plan, error) {
	p, err := e.store.FindProfile(ctx, userID)
	if err != nil {
		return Plan{}, err
	}
	return BuildPlan(p)
}
