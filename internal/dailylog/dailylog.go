// Package dailylog manages the per-day nutrition log: lazy creation, food
// entries that bump the running totals, and patches to the manually set
// fields.
package dailylog

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"lg/nutri-track-api/internal/model"
)

// Store is the persistence the log service needs.
type Store interface {
	UpsertLog(ctx context.Context, userID int, date model.DateOnly) (model.DailyLog, error)
	GetLog(ctx context.Context, logID int64) (model.DailyLog, error)
	AddFoodEntry(ctx context.Context, logID int64, e model.NewFoodEntry) (int64, error)
	PatchLog(ctx context.Context, logID int64, patch model.LogPatch) (bool, error)
	ListEntries(ctx context.Context, logID int64) ([]model.FoodEntry, error)
}

type Service struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// NewService returns a log service that computes "today" in loc. A nil loc
// means UTC.
func NewService(s Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: s, loc: loc, now: time.Now}
}

// Today returns the calendar date of now in the service's time zone.
func (s *Service) Today() model.DateOnly {
	return model.NewDateOnly(s.now().In(s.loc))
}

// GetOrCreateLog returns the user's log for date, creating an empty one if
// none exists.
func (s *Service) GetOrCreateLog(ctx context.Context, userID int, date model.DateOnly) (model.DailyLog, error) {
	return s.store.UpsertLog(ctx, userID, date)
}

// AddFoodEntry appends an entry to logID and increments the log totals.
// Quantity and unit are recorded as given; nutrients are not rescaled.
func (s *Service) AddFoodEntry(ctx context.Context, logID int64, e model.NewFoodEntry) (int64, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Unit = strings.TrimSpace(e.Unit)
	if err := validateEntry(e); err != nil {
		return 0, err
	}
	return s.store.AddFoodEntry(ctx, logID, e)
}

// PatchLog updates water intake, exercise duration and status. Returns false
// when logID does not exist.
func (s *Service) PatchLog(ctx context.Context, logID int64, patch model.LogPatch) (bool, error) {
	if err := validatePatch(patch); err != nil {
		return false, err
	}
	return s.store.PatchLog(ctx, logID, patch)
}

// GetEntries lists a log's food entries, newest first.
func (s *Service) GetEntries(ctx context.Context, logID int64) ([]model.FoodEntry, error) {
	return s.store.ListEntries(ctx, logID)
}

// GetOwnedEntries lists entries only when logID belongs to userID. A log owned
// by someone else reads as not found.
func (s *Service) GetOwnedEntries(ctx context.Context, userID int, logID int64) ([]model.FoodEntry, error) {
	l, err := s.store.GetLog(ctx, logID)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, fmt.Errorf("%w: daily log %d", model.ErrNotFound, logID)
	}
	return s.store.ListEntries(ctx, logID)
}

/* ─── Today flows ────────────────────────────────────────────────────── */

// TodayLog returns today's log with its entries attached.
func (s *Service) TodayLog(ctx context.Context, userID int) (model.DailyLog, error) {
	l, err := s.store.UpsertLog(ctx, userID, s.Today())
	if err != nil {
		return model.DailyLog{}, err
	}
	if l.FoodEntries, err = s.store.ListEntries(ctx, l.ID); err != nil {
		return model.DailyLog{}, err
	}
	return l, nil
}

// AddFoodEntryToday appends to today's log and returns the updated log.
func (s *Service) AddFoodEntryToday(ctx context.Context, userID int, e model.NewFoodEntry) (model.DailyLog, int64, error) {
	l, err := s.store.UpsertLog(ctx, userID, s.Today())
	if err != nil {
		return model.DailyLog{}, 0, err
	}
	entryID, err := s.AddFoodEntry(ctx, l.ID, e)
	if err != nil {
		return model.DailyLog{}, 0, err
	}
	l, err = s.TodayLog(ctx, userID)
	return l, entryID, err
}

// PatchToday applies patch to today's log and returns the updated log.
func (s *Service) PatchToday(ctx context.Context, userID int, patch model.LogPatch) (model.DailyLog, error) {
	l, err := s.store.UpsertLog(ctx, userID, s.Today())
	if err != nil {
		return model.DailyLog{}, err
	}
	ok, err := s.PatchLog(ctx, l.ID, patch)
	if err != nil {
		return model.DailyLog{}, err
	}
	if !ok {
		return model.DailyLog{}, fmt.Errorf("%w: daily log %d", model.ErrNotFound, l.ID)
	}
	return s.TodayLog(ctx, userID)
}

/* ─── Validation ─────────────────────────────────────────────────────── */

func validateEntry(e model.NewFoodEntry) error {
	if e.Name == "" {
		return fmt.Errorf("%w: food_name is required", model.ErrInvalidInput)
	}
	if e.Unit == "" {
		return fmt.Errorf("%w: unit is required", model.ErrInvalidInput)
	}
	if !(e.Quantity > 0) || math.IsInf(e.Quantity, 0) {
		return fmt.Errorf("%w: quantity must be positive", model.ErrInvalidInput)
	}
	for _, n := range []struct {
		name  string
		value float64
	}{
		{"calories", e.Calories},
		{"protein", e.Protein},
		{"carbs", e.Carbs},
		{"fats", e.Fats},
	} {
		if !(n.value >= 0) || math.IsInf(n.value, 0) {
			return fmt.Errorf("%w: %s must be >= 0", model.ErrInvalidInput, n.name)
		}
	}
	return nil
}

func validatePatch(p model.LogPatch) error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: no fields to update", model.ErrInvalidInput)
	}
	if p.WaterIntake != nil && !(*p.WaterIntake >= 0) {
		return fmt.Errorf("%w: water_intake must be >= 0", model.ErrInvalidInput)
	}
	if p.ExerciseDuration != nil && *p.ExerciseDuration < 0 {
		return fmt.Errorf("%w: exercise_duration must be >= 0", model.ErrInvalidInput)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: status must be pending or completed", model.ErrInvalidInput)
	}
	return nil
}
