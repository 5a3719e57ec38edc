package weekly

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"lg/nutri-track-api/internal/model"
	"lg/nutri-track-api/internal/store"
)

func date(t *testing.T, v string) model.DateOnly {
	t.Helper()
	d, err := model.ParseDate(v)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestWeekBounds(t *testing.T) {
	cases := []struct {
		ref, start, end string
	}{
		{"2026-10-18", "2026-10-18", "2026-10-24"}, // Sunday
		{"2026-10-19", "2026-10-18", "2026-10-24"}, // Monday
		{"2026-10-24", "2026-10-18", "2026-10-24"}, // Saturday
		{"2026-10-25", "2026-10-25", "2026-10-31"}, // next Sunday
		{"2026-01-01", "2025-12-28", "2026-01-03"}, // year boundary
	}
	for _, tc := range cases {
		start, end := WeekBounds(date(t, tc.ref))
		if start.String() != tc.start || end.String() != tc.end {
			t.Errorf("WeekBounds(%s) = %s..%s, want %s..%s", tc.ref, start, end, tc.start, tc.end)
		}
	}
}

func TestSummarize(t *testing.T) {
	start := date(t, "2026-10-18")
	log := func(day string, calories float64, exercise int, status model.LogStatus) model.DailyLog {
		return model.DailyLog{LogDate: date(t, day), CaloriesConsumed: calories, ExerciseDuration: exercise, Status: status}
	}

	cases := []struct {
		name       string
		logs       []model.DailyLog
		compliance float64
		avg        float64
		exercise   int
		completed  int
		missed     int
	}{
		{
			name:       "no logs",
			logs:       nil,
			compliance: 0, avg: 0, exercise: 0, completed: 0, missed: 7,
		},
		{
			name: "three logged two completed",
			logs: []model.DailyLog{
				log("2026-10-18", 1800, 30, model.StatusCompleted),
				log("2026-10-19", 2100, 0, model.StatusPending),
				log("2026-10-21", 1650, 45, model.StatusCompleted),
			},
			compliance: 28.6, avg: 1850, exercise: 75, completed: 2, missed: 4,
		},
		{
			name: "full week all completed",
			logs: []model.DailyLog{
				log("2026-10-18", 2000, 10, model.StatusCompleted),
				log("2026-10-19", 2000, 10, model.StatusCompleted),
				log("2026-10-20", 2000, 10, model.StatusCompleted),
				log("2026-10-21", 2000, 10, model.StatusCompleted),
				log("2026-10-22", 2000, 10, model.StatusCompleted),
				log("2026-10-23", 2000, 10, model.StatusCompleted),
				log("2026-10-24", 2000, 10, model.StatusCompleted),
			},
			compliance: 100, avg: 2000, exercise: 70, completed: 7, missed: 0,
		},
		{
			name: "average rounds to whole calories",
			logs: []model.DailyLog{
				log("2026-10-18", 1000.4, 0, model.StatusPending),
				log("2026-10-19", 1000.8, 0, model.StatusPending),
			},
			compliance: 0, avg: 1001, exercise: 0, completed: 0, missed: 5,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Summarize(start, tc.logs)
			if s.CompliancePercentage != tc.compliance {
				t.Errorf("compliance = %v, want %v", s.CompliancePercentage, tc.compliance)
			}
			if s.AvgCalories != tc.avg {
				t.Errorf("avg = %v, want %v", s.AvgCalories, tc.avg)
			}
			if s.TotalExercise != tc.exercise {
				t.Errorf("exercise = %d, want %d", s.TotalExercise, tc.exercise)
			}
			if s.CompletedDays != tc.completed {
				t.Errorf("completed = %d, want %d", s.CompletedDays, tc.completed)
			}
			if s.MissedDays != tc.missed || s.TotalDaysLogged+s.MissedDays != DaysPerWeek {
				t.Errorf("logged=%d missed=%d, want missed %d", s.TotalDaysLogged, s.MissedDays, tc.missed)
			}
			if s.WeekEnd.String() != "2026-10-24" {
				t.Errorf("week end = %s", s.WeekEnd)
			}
			if s.Logs == nil {
				t.Error("logs should be an empty slice, not nil")
			}
		})
	}
}

func TestWeeklySummary_FromStore(t *testing.T) {
	ctx := context.Background()
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "nutri.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(st.Close)
	if _, err := st.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	u, err := st.CreateUser(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatal(err)
	}

	completed := model.StatusCompleted
	for _, d := range []struct {
		day  string
		done bool
	}{
		{"2026-10-17", true}, // previous Saturday, outside the week
		{"2026-10-18", true},
		{"2026-10-20", false},
		{"2026-10-22", true},
		{"2026-10-25", true}, // next Sunday, outside the week
	} {
		l, err := st.UpsertLog(ctx, u.ID, date(t, d.day))
		if err != nil {
			t.Fatal(err)
		}
		if d.done {
			if _, err := st.PatchLog(ctx, l.ID, model.LogPatch{Status: &completed}); err != nil {
				t.Fatal(err)
			}
		}
	}

	svc := NewService(st, time.UTC)
	svc.now = func() time.Time { return time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC) }

	s, err := svc.WeeklySummary(ctx, u.ID, model.DateOnly{})
	if err != nil {
		t.Fatal(err)
	}
	if s.WeekStart.String() != "2026-10-18" || s.TotalDaysLogged != 3 || s.CompletedDays != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if s.CompliancePercentage != 28.6 || s.MissedDays != 4 {
		t.Errorf("compliance = %v missed = %d, want 28.6 and 4", s.CompliancePercentage, s.MissedDays)
	}
	if s.Logs[0].LogDate.String() != "2026-10-18" || s.Logs[2].LogDate.String() != "2026-10-22" {
		t.Errorf("logs not ascending: %v, %v", s.Logs[0].LogDate, s.Logs[2].LogDate)
	}
}
