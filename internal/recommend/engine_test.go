package recommend

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"lg/nutri-track-api/internal/model"
	"lg/nutri-track-api/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.SQLite, int) {
	t.Helper()
	ctx := context.Background()
	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "nutri.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(s.Close)
	if _, err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	u, err := s.CreateUser(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewEngine(s), s, u.ID
}

func setProfile(t *testing.T, s *store.SQLite, userID int, p model.Profile) {
	t.Helper()
	patch := model.ProfilePatch{
		Age: p.Age, WeightKG: p.WeightKG, HeightCM: p.HeightCM,
		Sex: p.Sex, ActivityLevel: p.ActivityLevel, Goal: p.Goal,
	}
	if _, err := s.UpdateProfile(context.Background(), userID, patch); err != nil {
		t.Fatalf("update profile: %v", err)
	}
}

var priorityRank = map[model.Priority]int{
	model.PriorityHigh:   0,
	model.PriorityMedium: 1,
	model.PriorityLow:    2,
}

// signature reduces a batch to its sorted (type, title, priority) multiset.
func signature(recs []model.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = string(r.Type) + "|" + r.Title + "|" + string(r.Priority)
	}
	sort.Strings(out)
	return out
}

func TestRegenerate_ReplacesActiveBatch(t *testing.T) {
	e, s, userID := newTestEngine(t)
	ctx := context.Background()
	setProfile(t, s, userID, makeProfile(45, 90, 170, model.SexMale, model.ActivitySedentary, model.GoalLoseWeight))

	clock := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return clock }
	first, err := e.Regenerate(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(time.Minute)
	second, err := e.Regenerate(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 9 || len(second) != 9 {
		t.Fatalf("batch sizes = %d, %d; want 9", len(first), len(second))
	}
	if first[0].BatchID == second[0].BatchID {
		t.Error("regeneration should use a new batch id")
	}
	a, b := signature(first), signature(second)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("batches differ: %v vs %v", a, b)
		}
	}

	active, err := e.Active(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 9 {
		t.Fatalf("active = %d, want 9", len(active))
	}
	for _, r := range active {
		if r.BatchID != second[0].BatchID || !r.IsActive {
			t.Errorf("active row %d from batch %s, want %s", r.ID, r.BatchID, second[0].BatchID)
		}
	}

	// High first, rule order within a priority.
	wantTop := []string{"Reduce Caloric Intake", "Create Caloric Deficit", "HIIT Workouts", "Start with Light Exercise"}
	for i, title := range wantTop {
		if active[i].Title != title {
			t.Errorf("active[%d] = %q, want %q", i, active[i].Title, title)
		}
	}
	for i := 1; i < len(active); i++ {
		if priorityRank[active[i-1].Priority] > priorityRank[active[i].Priority] {
			t.Errorf("priority order broken at %d: %s before %s", i, active[i-1].Priority, active[i].Priority)
		}
	}

	history, err := e.History(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 18 {
		t.Fatalf("history = %d, want 18", len(history))
	}
	inactive := 0
	for _, r := range history {
		if !r.IsActive {
			inactive++
			if r.BatchID != first[0].BatchID {
				t.Errorf("inactive row from batch %s, want %s", r.BatchID, first[0].BatchID)
			}
		}
	}
	if inactive != 9 {
		t.Errorf("inactive = %d, want 9", inactive)
	}
}

func TestRegenerate_ConcurrentLeavesOneActiveBatch(t *testing.T) {
	e, s, userID := newTestEngine(t)
	ctx := context.Background()
	setProfile(t, s, userID, makeProfile(45, 90, 170, model.SexMale, model.ActivitySedentary, model.GoalLoseWeight))

	const runs = 8
	var wg sync.WaitGroup
	errs := make(chan error, runs)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Regenerate(ctx, userID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("regenerate: %v", err)
	}

	active, err := e.Active(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 9 {
		t.Fatalf("active = %d, want 9", len(active))
	}
	for _, r := range active {
		if r.BatchID != active[0].BatchID {
			t.Errorf("active rows span batches %s and %s", active[0].BatchID, r.BatchID)
		}
	}
}

func TestRegenerate_IncompleteProfile(t *testing.T) {
	e, _, userID := newTestEngine(t)
	_, err := e.Regenerate(context.Background(), userID)
	if !errors.Is(err, model.ErrProfileIncomplete) {
		t.Errorf("err = %v, want ErrProfileIncomplete", err)
	}
	active, _ := e.Active(context.Background(), userID)
	if len(active) != 0 {
		t.Errorf("failed regeneration stored %d rows", len(active))
	}
}

func TestRegenerate_UnknownUser(t *testing.T) {
	e, _, _ := newTestEngine(t)
	if _, err := e.Regenerate(context.Background(), 9999); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNutritionPlan(t *testing.T) {
	e, s, userID := newTestEngine(t)
	ctx := context.Background()
	if _, err := e.NutritionPlan(ctx, userID); !errors.Is(err, model.ErrProfileIncomplete) {
		t.Errorf("empty profile err = %v, want ErrProfileIncomplete", err)
	}
	setProfile(t, s, userID, makeProfile(45, 90, 170, model.SexMale, model.ActivitySedentary, model.GoalLoseWeight))
	plan, err := e.NutritionPlan(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if plan.DailyCalories != 1725 {
		t.Errorf("daily calories = %d", plan.DailyCalories)
	}
}
