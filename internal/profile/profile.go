// Package profile reads and updates a user's body profile and attaches the
// derived metrics whenever the profile is complete.
package profile

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"lg/nutri-track-api/internal/metrics"
	"lg/nutri-track-api/internal/model"
)

// Store is the persistence the profile service needs.
type Store interface {
	FindProfile(ctx context.Context, userID int) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID int, patch model.ProfilePatch) (bool, error)
}

// Accepted ranges for profile updates.
const (
	MinAge, MaxAge       = 13, 120
	MinWeight, MaxWeight = 30.0, 300.0
	MinHeight, MaxHeight = 100.0, 250.0
)

// View is a profile plus its metrics. Snapshot is nil until the profile is
// complete, so the metric keys are absent from JSON for an empty profile.
type View struct {
	model.Profile
	*metrics.Snapshot
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// Get returns the user's profile with metrics populated when complete.
func (s *Service) Get(ctx context.Context, userID int) (View, error) {
	p, err := s.store.FindProfile(ctx, userID)
	if err != nil {
		return View{}, err
	}
	v := View{Profile: p}
	if p.Complete() {
		snap, err := metrics.Compute(p)
		if err != nil {
			return View{}, err
		}
		v.Snapshot = &snap
	}
	return v, nil
}

// Update validates and writes the non-nil patch fields. The result must leave
// the profile either complete or empty.
func (s *Service) Update(ctx context.Context, userID int, patch model.ProfilePatch) (View, error) {
	if patch.IsEmpty() {
		return View{}, fmt.Errorf("%w: no fields to update", model.ErrInvalidInput)
	}
	if err := Validate(patch); err != nil {
		return View{}, err
	}

	current, err := s.store.FindProfile(ctx, userID)
	if err != nil {
		return View{}, err
	}
	merged := patch.Apply(current)
	if !merged.Complete() && !merged.Empty() {
		return View{}, fmt.Errorf("%w: profile must be set in full, missing %s",
			model.ErrInvalidInput, strings.Join(merged.MissingFields(), ", "))
	}

	ok, err := s.store.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return View{}, err
	}
	if !ok {
		return View{}, fmt.Errorf("%w: profile for user %d", model.ErrNotFound, userID)
	}
	return s.Get(ctx, userID)
}

// Validate checks categorical values and ranges of the fields present in patch.
func Validate(patch model.ProfilePatch) error {
	if a := patch.Age; a != nil && (*a < MinAge || *a > MaxAge) {
		return fmt.Errorf("%w: age must be between %d and %d", model.ErrInvalidInput, MinAge, MaxAge)
	}
	if w := patch.WeightKG; w != nil && (*w < MinWeight || *w > MaxWeight) {
		return fmt.Errorf("%w: weight_kg must be between %g and %g", model.ErrInvalidInput, MinWeight, MaxWeight)
	}
	if h := patch.HeightCM; h != nil && (*h < MinHeight || *h > MaxHeight) {
		return fmt.Errorf("%w: height_cm must be between %g and %g", model.ErrInvalidInput, MinHeight, MaxHeight)
	}
	if patch.Sex != nil && !patch.Sex.Valid() {
		return fmt.Errorf("%w: sex must be one of: male, female, other", model.ErrInvalidInput)
	}
	if patch.ActivityLevel != nil {
		if _, err := metrics.ActivityMultiplier(*patch.ActivityLevel); err != nil {
			return fmt.Errorf("%w: activity_level must be one of: sedentary, lightly_active, moderately_active, very_active, extremely_active",
				model.ErrInvalidInput)
		}
	}
	if patch.Goal != nil && !slices.Contains(model.KnownGoals, *patch.Goal) {
		return fmt.Errorf("%w: goal must be one of: lose_weight, maintain_weight, gain_weight", model.ErrInvalidInput)
	}
	return nil
}
