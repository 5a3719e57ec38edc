// Package metrics computes body metrics and the daily energy target from a
// profile. Every function is pure; incomplete input is an error, never a
// silently defaulted value.
package metrics

import (
	"fmt"
	"math"
	"strings"

	"lg/nutri-track-api/internal/model"
)

// activityMultipliers maps activity levels to their TDEE multiplier.
// Profile update validation also reads it through ActivityMultiplier.
var activityMultipliers = map[model.ActivityLevel]float64{
	model.ActivitySedentary:        1.2,
	model.ActivityLightlyActive:    1.375,
	model.ActivityModeratelyActive: 1.55,
	model.ActivityVeryActive:       1.725,
	model.ActivityExtremelyActive:  1.9,
}

// goalAdjustment is the calorie delta applied after the activity multiplier.
const goalAdjustment = 500

// Snapshot is every metric derivable from a complete profile.
type Snapshot struct {
	BMI           float64 `json:"bmi"`
	BMR           int     `json:"bmr"`
	TDEE          int     `json:"tdee"`
	DailyCalories int     `json:"daily_calories"`
}

// ActivityMultiplier returns the TDEE multiplier for level.
func ActivityMultiplier(level model.ActivityLevel) (float64, error) {
	mult, ok := activityMultipliers[level]
	if !ok {
		return 0, fmt.Errorf("%w: unknown activity level %q", model.ErrInvalidInput, level)
	}
	return mult, nil
}

// BMI returns weight / height_m², rounded to one decimal place.
func BMI(weightKG, heightCM float64) (float64, error) {
	if !(heightCM > 0) || math.IsInf(heightCM, 0) {
		return 0, fmt.Errorf("%w: height must be a positive number", model.ErrInvalidInput)
	}
	if !(weightKG > 0) || math.IsInf(weightKG, 0) {
		return 0, fmt.Errorf("%w: weight must be a positive number", model.ErrInvalidInput)
	}
	h := heightCM / 100
	return round1(weightKG / (h * h)), nil
}

// BMR computes basal metabolic rate with the revised Harris–Benedict equation.
// "other" uses the female constants.
func BMR(p model.Profile) (float64, error) {
	if err := requireFields(p, "age", "weight_kg", "height_cm", "sex"); err != nil {
		return 0, err
	}
	w, h, age := *p.WeightKG, *p.HeightCM, float64(*p.Age)
	switch *p.Sex {
	case model.SexMale:
		return 88.362 + 13.397*w + 4.799*h - 5.677*age, nil
	case model.SexFemale, model.SexOther:
		return 447.593 + 9.247*w + 3.098*h - 4.330*age, nil
	}
	return 0, fmt.Errorf("%w: unknown sex %q", model.ErrInvalidInput, *p.Sex)
}

// DailyCalorieTarget returns BMR × activity multiplier, adjusted by ±500 for
// weight-loss and weight-gain goals, rounded to the nearest integer.
func DailyCalorieTarget(p model.Profile) (int, error) {
	if err := requireFields(p, "age", "weight_kg", "height_cm", "sex", "activity_level", "goal"); err != nil {
		return 0, err
	}
	tdee, err := tdee(p)
	if err != nil {
		return 0, err
	}
	switch *p.Goal {
	case model.GoalLoseWeight:
		tdee -= goalAdjustment
	case model.GoalGainWeight:
		tdee += goalAdjustment
	}
	return int(math.Round(tdee)), nil
}

// Compute returns the full metric snapshot for a complete profile.
func Compute(p model.Profile) (Snapshot, error) {
	if !p.Complete() {
		return Snapshot{}, incomplete(p.MissingFields())
	}
	bmi, err := BMI(*p.WeightKG, *p.HeightCM)
	if err != nil {
		return Snapshot{}, err
	}
	bmr, err := BMR(p)
	if err != nil {
		return Snapshot{}, err
	}
	t, err := tdee(p)
	if err != nil {
		return Snapshot{}, err
	}
	target, err := DailyCalorieTarget(p)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		BMI:           bmi,
		BMR:           int(math.Round(bmr)),
		TDEE:          int(math.Round(t)),
		DailyCalories: target,
	}, nil
}

func tdee(p model.Profile) (float64, error) {
	bmr, err := BMR(p)
	if err != nil {
		return 0, err
	}
	mult, err := ActivityMultiplier(*p.ActivityLevel)
	if err != nil {
		return 0, err
	}
	return bmr * mult, nil
}

// requireFields fails with ErrProfileIncomplete if any of the named profile
// attributes is unset.
func requireFields(p model.Profile, names ...string) error {
	missing := p.MissingFields()
	var hit []string
	for _, m := range missing {
		for _, n := range names {
			if m == n {
				hit = append(hit, m)
			}
		}
	}
	if len(hit) > 0 {
		return incomplete(hit)
	}
	return nil
}

func incomplete(fields []string) error {
	return fmt.Errorf("%w: missing %s", model.ErrProfileIncomplete, strings.Join(fields, ", "))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
