// Package weekly rolls a Sunday-to-Saturday week of daily logs into
// compliance statistics.
package weekly

import (
	"context"
	"math"
	"time"

	"lg/nutri-track-api/internal/model"
)

// DaysPerWeek is the fixed compliance divisor. Days without a log count as
// missed, not as excluded.
const DaysPerWeek = 7

type Summary struct {
	WeekStart            model.DateOnly   `json:"week_start"`
	WeekEnd              model.DateOnly   `json:"week_end"`
	Logs                 []model.DailyLog `json:"logs"`
	TotalDaysLogged      int              `json:"total_days_logged"`
	CompletedDays        int              `json:"completed_days"`
	CompliancePercentage float64          `json:"compliance_percentage"`
	AvgCalories          float64          `json:"avg_calories"`
	TotalExercise        int              `json:"total_exercise"`
	MissedDays           int              `json:"missed_days"`
}

// WeekBounds returns the Sunday starting the week that contains ref and the
// Saturday ending it.
func WeekBounds(ref model.DateOnly) (start, end model.DateOnly) {
	offset := int(ref.Weekday()) // Sunday = 0
	start = model.DateOnly{Time: ref.AddDate(0, 0, -offset)}
	end = model.DateOnly{Time: start.AddDate(0, 0, DaysPerWeek-1)}
	return start, end
}

// Summarize computes the weekly statistics for the logs of the week starting
// at start. logs must already be limited to that week.
func Summarize(start model.DateOnly, logs []model.DailyLog) Summary {
	if logs == nil {
		logs = []model.DailyLog{}
	}
	s := Summary{
		WeekStart:       start,
		WeekEnd:         model.DateOnly{Time: start.AddDate(0, 0, DaysPerWeek-1)},
		Logs:            logs,
		TotalDaysLogged: len(logs),
	}

	var calories float64
	for _, l := range logs {
		if l.Status == model.StatusCompleted {
			s.CompletedDays++
		}
		calories += l.CaloriesConsumed
		s.TotalExercise += l.ExerciseDuration
	}

	s.CompliancePercentage = math.Round(float64(s.CompletedDays)/DaysPerWeek*100*10) / 10
	s.AvgCalories = math.Round(calories / float64(max(s.TotalDaysLogged, 1)))
	s.MissedDays = DaysPerWeek - s.TotalDaysLogged
	return s
}

// Store is the persistence the aggregator needs.
type Store interface {
	LogsBetween(ctx context.Context, userID int, start, end model.DateOnly) ([]model.DailyLog, error)
}

type Service struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// NewService returns an aggregator that resolves a missing reference date to
// today in loc. A nil loc means UTC.
func NewService(s Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: s, loc: loc, now: time.Now}
}

// WeeklySummary summarizes the week containing ref. A zero ref means today.
func (s *Service) WeeklySummary(ctx context.Context, userID int, ref model.DateOnly) (Summary, error) {
	if ref.IsZero() {
		ref = model.NewDateOnly(s.now().In(s.loc))
	}
	start, end := WeekBounds(ref)
	logs, err := s.store.LogsBetween(ctx, userID, start, end)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(start, logs), nil
}
