// Package recommend maps a profile snapshot to a batch of advice records
// through a fixed, ordered rule table, and replaces a user's active batch on
// regeneration.
package recommend

import (
	"fmt"

	"lg/nutri-track-api/internal/metrics"
	"lg/nutri-track-api/internal/model"
)

// Facts are the profile values the rules read.
type Facts struct {
	BMI           float64
	Age           int
	ActivityLevel model.ActivityLevel
	Goal          model.Goal
}

// Template is the content of one recommendation a rule emits.
type Template struct {
	Type        model.RecommendationType
	Title       string
	Description string
	Priority    model.Priority
}

// Rule emits its templates, in order, when When holds.
type Rule struct {
	Name string
	When func(Facts) bool
	Emit []Template
}

func activityIs(level model.ActivityLevel) func(Facts) bool {
	return func(f Facts) bool { return f.ActivityLevel == level }
}

func goalIs(goal model.Goal) func(Facts) bool {
	return func(f Facts) bool { return f.Goal == goal }
}

func always(Facts) bool { return true }

// Rules is evaluated top to bottom. Batch positions follow this order.
var Rules = []Rule{
	{
		Name: "underweight",
		When: func(f Facts) bool { return f.BMI < 18.5 },
		Emit: []Template{{
			model.TypeNutrition, "Increase Caloric Intake",
			"Focus on nutrient-dense, high-calorie foods like nuts, avocados, and lean proteins.",
			model.PriorityHigh,
		}},
	},
	{
		Name: "overweight",
		When: func(f Facts) bool { return f.BMI > 25 },
		Emit: []Template{{
			model.TypeNutrition, "Reduce Caloric Intake",
			"Focus on low-calorie, high-fiber foods like vegetables and lean proteins.",
			model.PriorityHigh,
		}},
	},
	{
		Name: "activity-sedentary",
		When: activityIs(model.ActivitySedentary),
		Emit: []Template{
			{
				model.TypeExercise, "Start with Light Exercise",
				"Begin with 15-20 minutes of walking daily and gradually increase intensity.",
				model.PriorityMedium,
			},
			{
				model.TypeExercise, "Desk Exercises",
				"Try desk stretches, wall push-ups, and stair climbing during work breaks.",
				model.PriorityLow,
			},
		},
	},
	{
		Name: "activity-lightly-active",
		When: activityIs(model.ActivityLightlyActive),
		Emit: []Template{{
			model.TypeExercise, "Increase Activity Frequency",
			"Aim for 30 minutes of moderate exercise 3-4 times per week.",
			model.PriorityMedium,
		}},
	},
	{
		Name: "activity-moderately-active",
		When: activityIs(model.ActivityModeratelyActive),
		Emit: []Template{{
			model.TypeExercise, "Add Strength Training",
			"Include 2-3 strength training sessions per week for muscle building.",
			model.PriorityMedium,
		}},
	},
	{
		Name: "activity-very-active",
		When: activityIs(model.ActivityVeryActive),
		Emit: []Template{{
			model.TypeExercise, "Focus on Recovery",
			"Include rest days and stretching to prevent overtraining and injuries.",
			model.PriorityHigh,
		}},
	},
	{
		Name: "goal-lose-weight",
		When: goalIs(model.GoalLoseWeight),
		Emit: []Template{
			{
				model.TypeNutrition, "Create Caloric Deficit",
				"Aim for 500 calories below maintenance. Focus on protein and vegetables.",
				model.PriorityHigh,
			},
			{
				model.TypeExercise, "Combine Cardio and Strength",
				"Mix cardiovascular exercise with resistance training for optimal fat loss.",
				model.PriorityMedium,
			},
			{
				model.TypeExercise, "HIIT Workouts",
				"High-intensity interval training 2-3 times per week for fat burning.",
				model.PriorityHigh,
			},
		},
	},
	{
		Name: "goal-gain-weight",
		When: goalIs(model.GoalGainWeight),
		Emit: []Template{{
			model.TypeNutrition, "Increase Protein Intake",
			"Consume 1.6-2.2g protein per kg body weight to support muscle growth.",
			model.PriorityHigh,
		}},
	},
	{
		Name: "hydration",
		When: always,
		Emit: []Template{{
			model.TypeGeneral, "Stay Hydrated",
			"Drink at least 8 glasses of water daily for optimal health.",
			model.PriorityMedium,
		}},
	},
	{
		Name: "morning-routine",
		When: always,
		Emit: []Template{{
			model.TypeExercise, "Morning Routine",
			"10-minute morning stretches or yoga to boost energy and flexibility.",
			model.PriorityLow,
		}},
	},
	{
		Name: "age-over-40",
		When: func(f Facts) bool { return f.Age > 40 },
		Emit: []Template{{
			model.TypeExercise, "Joint-Friendly Exercises",
			"Focus on low-impact activities like swimming, cycling, or walking.",
			model.PriorityMedium,
		}},
	},
}

// FactsFrom extracts the rule inputs from p. The profile must carry age,
// activity level and goal; an unknown activity level is rejected.
func FactsFrom(p model.Profile, bmi float64) (Facts, error) {
	var missing []string
	for _, m := range p.MissingFields() {
		if m == "age" || m == "activity_level" || m == "goal" {
			missing = append(missing, m)
		}
	}
	if len(missing) > 0 {
		return Facts{}, fmt.Errorf("%w: missing %v", model.ErrProfileIncomplete, missing)
	}
	if _, err := metrics.ActivityMultiplier(*p.ActivityLevel); err != nil {
		return Facts{}, err
	}
	return Facts{BMI: bmi, Age: *p.Age, ActivityLevel: *p.ActivityLevel, Goal: *p.Goal}, nil
}

// Evaluate runs the rule table over f and returns the emitted templates in
// rule order.
func Evaluate(f Facts) []Template {
	var out []Template
	for _, r := range Rules {
		if r.When(f) {
			out = append(out, r.Emit...)
		}
	}
	return out
}

// Generate returns the unsaved recommendations for p, positioned in rule
// order. It has no side effects.
func Generate(p model.Profile, bmi float64) ([]model.Recommendation, error) {
	f, err := FactsFrom(p, bmi)
	if err != nil {
		return nil, err
	}
	templates := Evaluate(f)
	recs := make([]model.Recommendation, len(templates))
	for i, t := range templates {
		recs[i] = model.Recommendation{
			UserID:      p.UserID,
			Position:    i,
			Type:        t.Type,
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			IsActive:    true,
		}
	}
	return recs, nil
}
