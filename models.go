package main

import "lg/nutri-track-api/internal/model"

/* ─── Request bodies ─────────────────────────────────────────────────── */

// requestFieldNames maps struct field names to their JSON keys for
// validation error messages.
var requestFieldNames = map[string]string{
	"Username":         "username",
	"Password":         "password",
	"Age":              "age",
	"WeightKG":         "weight_kg",
	"HeightCM":         "height_cm",
	"Sex":              "sex",
	"ActivityLevel":    "activity_level",
	"Goal":             "goal",
	"FoodName":         "food_name",
	"Quantity":         "quantity",
	"Unit":             "unit",
	"Calories":         "calories",
	"Protein":          "protein",
	"Carbs":            "carbs",
	"Fats":             "fats",
	"WaterIntake":      "water_intake",
	"ExerciseDuration": "exercise_duration",
	"Status":           "status",
	"Message":          "message",
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// profileRequest is the body for PUT/PATCH /api/profile. All fields are
// pointers; only non-nil fields are written.
type profileRequest struct {
	Age           *int     `json:"age"            binding:"omitempty,min=13,max=120"`
	WeightKG      *float64 `json:"weight_kg"      binding:"omitempty,min=30,max=300"`
	HeightCM      *float64 `json:"height_cm"      binding:"omitempty,min=100,max=250"`
	Sex           *string  `json:"sex"            binding:"omitempty,oneof=male female other"`
	ActivityLevel *string  `json:"activity_level" binding:"omitempty,oneof=sedentary lightly_active moderately_active very_active extremely_active"`
	Goal          *string  `json:"goal"           binding:"omitempty,oneof=lose_weight maintain_weight gain_weight"`
}

func (r profileRequest) patch() model.ProfilePatch {
	p := model.ProfilePatch{Age: r.Age, WeightKG: r.WeightKG, HeightCM: r.HeightCM}
	if r.Sex != nil {
		s := model.Sex(*r.Sex)
		p.Sex = &s
	}
	if r.ActivityLevel != nil {
		a := model.ActivityLevel(*r.ActivityLevel)
		p.ActivityLevel = &a
	}
	if r.Goal != nil {
		g := model.Goal(*r.Goal)
		p.Goal = &g
	}
	return p
}

// foodEntryRequest is the body for POST /api/nutrition/food. Nutrient values
// are totals for the given quantity.
type foodEntryRequest struct {
	FoodName string  `json:"food_name" binding:"required"`
	Quantity float64 `json:"quantity"  binding:"gt=0"`
	Unit     string  `json:"unit"      binding:"required"`
	Calories float64 `json:"calories"  binding:"gte=0"`
	Protein  float64 `json:"protein"   binding:"gte=0"`
	Carbs    float64 `json:"carbs"     binding:"gte=0"`
	Fats     float64 `json:"fats"      binding:"gte=0"`
}

func (r foodEntryRequest) entry() model.NewFoodEntry {
	return model.NewFoodEntry{
		Name:     r.FoodName,
		Quantity: r.Quantity,
		Unit:     r.Unit,
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fats:     r.Fats,
	}
}

// dailyLogPatchRequest is the body for PUT/PATCH /api/nutrition/daily-log.
type dailyLogPatchRequest struct {
	WaterIntake      *float64 `json:"water_intake"      binding:"omitempty,gte=0"`
	ExerciseDuration *int     `json:"exercise_duration" binding:"omitempty,gte=0"`
	Status           *string  `json:"status"            binding:"omitempty,oneof=pending completed"`
}

func (r dailyLogPatchRequest) patch() model.LogPatch {
	p := model.LogPatch{WaterIntake: r.WaterIntake, ExerciseDuration: r.ExerciseDuration}
	if r.Status != nil {
		s := model.LogStatus(*r.Status)
		p.Status = &s
	}
	return p
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}
