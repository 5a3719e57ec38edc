package recommend

import (
	"math"

	"lg/nutri-track-api/internal/metrics"
	"lg/nutri-track-api/internal/model"
)

// Macro split of the daily calorie target, and energy per gram.
const (
	proteinShare = 0.25
	carbsShare   = 0.45
	fatsShare    = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fats    int `json:"fats"`
}

type MealTiming struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snacks    string `json:"snacks"`
}

// Plan is a daily eating guide derived from the calorie target and goal.
type Plan struct {
	DailyCalories  int        `json:"daily_calories"`
	Macros         Macros     `json:"macros"`
	FoodsToInclude []string   `json:"foods_to_include"`
	FoodsToAvoid   []string   `json:"foods_to_avoid"`
	MealTiming     MealTiming `json:"meal_timing"`
}

var defaultMealTiming = MealTiming{
	Breakfast: "25% of daily calories",
	Lunch:     "35% of daily calories",
	Dinner:    "30% of daily calories",
	Snacks:    "10% of daily calories",
}

// BuildPlan computes the plan for a complete profile.
func BuildPlan(p model.Profile) (Plan, error) {
	calories, err := metrics.DailyCalorieTarget(p)
	if err != nil {
		return Plan{}, err
	}
	kcal := float64(calories)
	return Plan{
		DailyCalories: calories,
		Macros: Macros{
			Protein: int(math.Round(kcal * proteinShare / kcalPerGramProtein)),
			Carbs:   int(math.Round(kcal * carbsShare / kcalPerGramCarbs)),
			Fats:    int(math.Round(kcal * fatsShare / kcalPerGramFat)),
		},
		FoodsToInclude: foodsToInclude(*p.Goal),
		FoodsToAvoid:   foodsToAvoid(*p.Goal),
		MealTiming:     defaultMealTiming,
	}, nil
}

func foodsToInclude(goal model.Goal) []string {
	switch goal {
	case model.GoalLoseWeight:
		return []string{"Leafy greens", "Lean proteins", "Berries", "Greek yogurt", "Quinoa"}
	case model.GoalGainWeight:
		return []string{"Nuts and seeds", "Avocados", "Whole grains", "Lean meats", "Healthy oils"}
	}
	return []string{"Balanced proteins", "Whole grains", "Fruits", "Vegetables", "Healthy fats"}
}

func foodsToAvoid(goal model.Goal) []string {
	foods := []string{"Processed foods", "Sugary drinks", "Trans fats", "Excessive alcohol"}
	if goal == model.GoalLoseWeight {
		foods = append(foods, "High-calorie snacks", "Fried foods")
	}
	return foods
}
