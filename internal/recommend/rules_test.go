package recommend

import (
	"errors"
	"testing"

	"lg/nutri-track-api/internal/model"
)

func makeProfile(age int, weightKG, heightCM float64, sex model.Sex, level model.ActivityLevel, goal model.Goal) model.Profile {
	return model.Profile{
		UserID:        1,
		Age:           &age,
		WeightKG:      &weightKG,
		HeightCM:      &heightCM,
		Sex:           &sex,
		ActivityLevel: &level,
		Goal:          &goal,
	}
}

func titles(recs []model.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}

func ruleByName(t *testing.T, name string) Rule {
	t.Helper()
	for _, r := range Rules {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no rule %q", name)
	return Rule{}
}

// TestRules_Predicates exercises each rule's predicate in isolation.
func TestRules_Predicates(t *testing.T) {
	cases := []struct {
		rule  string
		facts Facts
		want  bool
	}{
		{"underweight", Facts{BMI: 18.4}, true},
		{"underweight", Facts{BMI: 18.5}, false},
		{"overweight", Facts{BMI: 25}, false},
		{"overweight", Facts{BMI: 25.1}, true},
		{"activity-sedentary", Facts{ActivityLevel: model.ActivitySedentary}, true},
		{"activity-sedentary", Facts{ActivityLevel: model.ActivityLightlyActive}, false},
		{"activity-lightly-active", Facts{ActivityLevel: model.ActivityLightlyActive}, true},
		{"activity-moderately-active", Facts{ActivityLevel: model.ActivityModeratelyActive}, true},
		{"activity-very-active", Facts{ActivityLevel: model.ActivityVeryActive}, true},
		{"activity-very-active", Facts{ActivityLevel: model.ActivityExtremelyActive}, false},
		{"goal-lose-weight", Facts{Goal: model.GoalLoseWeight}, true},
		{"goal-lose-weight", Facts{Goal: model.GoalMaintainWeight}, false},
		{"goal-gain-weight", Facts{Goal: model.GoalGainWeight}, true},
		{"hydration", Facts{}, true},
		{"morning-routine", Facts{}, true},
		{"age-over-40", Facts{Age: 40}, false},
		{"age-over-40", Facts{Age: 41}, true},
	}
	for _, tc := range cases {
		if got := ruleByName(t, tc.rule).When(tc.facts); got != tc.want {
			t.Errorf("%s.When(%+v) = %v, want %v", tc.rule, tc.facts, got, tc.want)
		}
	}
}

func TestRules_ExtremelyActiveFiresNoActivityRule(t *testing.T) {
	f := Facts{BMI: 22, Age: 30, ActivityLevel: model.ActivityExtremelyActive, Goal: model.GoalMaintainWeight}
	got := Evaluate(f)
	if len(got) != 2 || got[0].Title != "Stay Hydrated" || got[1].Title != "Morning Routine" {
		t.Errorf("Evaluate = %+v, want only the unconditional rules", got)
	}
}

// TestGenerate_Scenario covers the overweight, sedentary, weight-loss, over-40
// profile: every rule family fires.
func TestGenerate_Scenario(t *testing.T) {
	p := makeProfile(45, 90, 170, model.SexMale, model.ActivitySedentary, model.GoalLoseWeight)
	recs, err := Generate(p, 31.1)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Reduce Caloric Intake",
		"Start with Light Exercise",
		"Desk Exercises",
		"Create Caloric Deficit",
		"Combine Cardio and Strength",
		"HIIT Workouts",
		"Stay Hydrated",
		"Morning Routine",
		"Joint-Friendly Exercises",
	}
	got := titles(recs)
	if len(got) != len(want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, got[i], want[i])
		}
		if recs[i].Position != i {
			t.Errorf("position field %d = %d", i, recs[i].Position)
		}
	}

	counts := map[model.Priority]int{}
	for _, r := range recs {
		counts[r.Priority]++
	}
	if counts[model.PriorityHigh] != 3 || counts[model.PriorityMedium] != 4 || counts[model.PriorityLow] != 2 {
		t.Errorf("priority counts = %v, want high 3, medium 4, low 2", counts)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	p := makeProfile(28, 50, 175, model.SexFemale, model.ActivityVeryActive, model.GoalGainWeight)
	a, err := Generate(p, 16.3)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Generate(p, 16.3)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("run differs at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
	want := []string{"Increase Caloric Intake", "Focus on Recovery", "Increase Protein Intake", "Stay Hydrated", "Morning Routine"}
	got := titles(a)
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("titles = %v, want %v", got, want)
		}
	}
}

func TestGenerate_UnknownGoalFiresNoGoalRule(t *testing.T) {
	p := makeProfile(30, 70, 175, model.SexMale, model.ActivityLightlyActive, model.Goal("build_endurance"))
	recs, err := Generate(p, 22.9)
	if err != nil {
		t.Fatal(err)
	}
	got := titles(recs)
	if len(got) != 3 || got[0] != "Increase Activity Frequency" {
		t.Errorf("titles = %v", got)
	}
}

func TestGenerate_Errors(t *testing.T) {
	p := makeProfile(45, 90, 170, model.SexMale, model.ActivitySedentary, model.GoalLoseWeight)
	p.Goal = nil
	if _, err := Generate(p, 31.1); !errors.Is(err, model.ErrProfileIncomplete) {
		t.Errorf("nil goal err = %v, want ErrProfileIncomplete", err)
	}

	p = makeProfile(45, 90, 170, model.SexMale, model.ActivityLevel("couch"), model.GoalLoseWeight)
	if _, err := Generate(p, 31.1); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("unknown activity err = %v, want ErrInvalidInput", err)
	}
}

func TestBuildPlan(t *testing.T) {
	plan, err := BuildPlan(makeProfile(45, 90, 170, model.SexMale, model.ActivitySedentary, model.GoalLoseWeight))
	if err != nil {
		t.Fatal(err)
	}
	if plan.DailyCalories != 1725 {
		t.Errorf("daily calories = %d, want 1725", plan.DailyCalories)
	}
	if plan.Macros != (Macros{Protein: 108, Carbs: 194, Fats: 58}) {
		t.Errorf("macros = %+v", plan.Macros)
	}
	if len(plan.FoodsToAvoid) != 6 || plan.FoodsToAvoid[5] != "Fried foods" {
		t.Errorf("foods to avoid = %v", plan.FoodsToAvoid)
	}
	if plan.FoodsToInclude[0] != "Leafy greens" || plan.MealTiming.Lunch != "35% of daily calories" {
		t.Errorf("plan = %+v", plan)
	}

	maintain, _ := BuildPlan(makeProfile(30, 60, 165, model.SexFemale, model.ActivityModeratelyActive, model.GoalMaintainWeight))
	if len(maintain.FoodsToAvoid) != 4 || maintain.FoodsToInclude[0] != "Balanced proteins" {
		t.Errorf("maintain plan = %+v", maintain)
	}

	empty := model.Profile{UserID: 1}
	if _, err := BuildPlan(empty); !errors.Is(err, model.ErrProfileIncomplete) {
		t.Errorf("empty profile err = %v, want ErrProfileIncomplete", err)
	}
}
