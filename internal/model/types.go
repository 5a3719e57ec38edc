package model

import (
	"time"

	"github.com/google/uuid"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// ActivityLevels lists the levels from least to most active.
var ActivityLevels = []ActivityLevel{
	ActivitySedentary,
	ActivityLightlyActive,
	ActivityModeratelyActive,
	ActivityVeryActive,
	ActivityExtremelyActive,
}

type Goal string

const (
	GoalLoseWeight     Goal = "lose_weight"
	GoalMaintainWeight Goal = "maintain_weight"
	GoalGainWeight     Goal = "gain_weight"
)

// KnownGoals are the goals a profile update accepts. Calculators and rules
// treat any other goal as "no adjustment".
var KnownGoals = []Goal{GoalLoseWeight, GoalMaintainWeight, GoalGainWeight}

type LogStatus string

const (
	StatusPending   LogStatus = "pending"
	StatusCompleted LogStatus = "completed"
)

func (s LogStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

type RecommendationType string

const (
	TypeNutrition RecommendationType = "nutrition"
	TypeExercise  RecommendationType = "exercise"
	TypeGeneral   RecommendationType = "general"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

/* ─── Persisted records ──────────────────────────────────────────────── */

// User maps to the users table. Password is hidden from JSON responses.
type User struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// Profile maps to the profiles table, one row per user. The six body/behaviour
// attributes are nullable: a profile is either complete or empty.
type Profile struct {
	UserID        int            `json:"user_id"        db:"user_id"`
	Age           *int           `json:"age"            db:"age"`
	WeightKG      *float64       `json:"weight_kg"      db:"weight_kg"`
	HeightCM      *float64       `json:"height_cm"      db:"height_cm"`
	Sex           *Sex           `json:"sex"            db:"sex"`
	ActivityLevel *ActivityLevel `json:"activity_level" db:"activity_level"`
	Goal          *Goal          `json:"goal"           db:"goal"`
	UpdatedAt     *time.Time     `json:"updated_at"     db:"updated_at"`
}

// MissingFields returns the JSON names of the unset profile attributes.
func (p Profile) MissingFields() []string {
	var missing []string
	if p.Age == nil {
		missing = append(missing, "age")
	}
	if p.WeightKG == nil {
		missing = append(missing, "weight_kg")
	}
	if p.HeightCM == nil {
		missing = append(missing, "height_cm")
	}
	if p.Sex == nil {
		missing = append(missing, "sex")
	}
	if p.ActivityLevel == nil {
		missing = append(missing, "activity_level")
	}
	if p.Goal == nil {
		missing = append(missing, "goal")
	}
	return missing
}

func (p Profile) Complete() bool { return len(p.MissingFields()) == 0 }

func (p Profile) Empty() bool { return len(p.MissingFields()) == 6 }

// ProfilePatch carries a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	Age           *int
	WeightKG      *float64
	HeightCM      *float64
	Sex           *Sex
	ActivityLevel *ActivityLevel
	Goal          *Goal
}

// Apply returns p with the non-nil patch fields written over it.
func (pp ProfilePatch) Apply(p Profile) Profile {
	if pp.Age != nil {
		p.Age = pp.Age
	}
	if pp.WeightKG != nil {
		p.WeightKG = pp.WeightKG
	}
	if pp.HeightCM != nil {
		p.HeightCM = pp.HeightCM
	}
	if pp.Sex != nil {
		p.Sex = pp.Sex
	}
	if pp.ActivityLevel != nil {
		p.ActivityLevel = pp.ActivityLevel
	}
	if pp.Goal != nil {
		p.Goal = pp.Goal
	}
	return p
}

func (pp ProfilePatch) IsEmpty() bool {
	return pp.Age == nil && pp.WeightKG == nil && pp.HeightCM == nil &&
		pp.Sex == nil && pp.ActivityLevel == nil && pp.Goal == nil
}

// DailyLog maps to daily_logs: one aggregate row per (user, calendar date).
// The four nutrient totals always equal the sum over the log's food entries.
type DailyLog struct {
	ID               int64       `json:"id"                db:"id"`
	UserID           int         `json:"user_id"           db:"user_id"`
	LogDate          DateOnly    `json:"log_date"          db:"log_date"`
	CaloriesConsumed float64     `json:"calories_consumed" db:"calories_consumed"`
	Protein          float64     `json:"protein"           db:"protein"`
	Carbs            float64     `json:"carbs"             db:"carbs"`
	Fats             float64     `json:"fats"              db:"fats"`
	WaterIntake      float64     `json:"water_intake"      db:"water_intake"`
	ExerciseDuration int         `json:"exercise_duration" db:"exercise_duration"`
	Status           LogStatus   `json:"status"            db:"status"`
	CreatedAt        time.Time   `json:"created_at"        db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"        db:"updated_at"`
	FoodEntries      []FoodEntry `json:"food_entries,omitempty" db:"-"`
}

// FoodEntry maps to food_entries. Entries are immutable once written.
type FoodEntry struct {
	ID         int64     `json:"id"           db:"id"`
	DailyLogID int64     `json:"daily_log_id" db:"daily_log_id"`
	Name       string    `json:"food_name"    db:"food_name"`
	Quantity   float64   `json:"quantity"     db:"quantity"`
	Unit       string    `json:"unit"         db:"unit"`
	Calories   float64   `json:"calories"     db:"calories"`
	Protein    float64   `json:"protein"      db:"protein"`
	Carbs      float64   `json:"carbs"        db:"carbs"`
	Fats       float64   `json:"fats"         db:"fats"`
	CreatedAt  time.Time `json:"created_at"   db:"created_at"`
}

// NewFoodEntry is the input for appending a food entry. Nutrient values are
// already scaled to Quantity by the caller.
type NewFoodEntry struct {
	Name     string
	Quantity float64
	Unit     string
	Calories float64
	Protein  float64
	Carbs    float64
	Fats     float64
}

// LogPatch is a partial update of the settable daily log fields.
type LogPatch struct {
	WaterIntake      *float64
	ExerciseDuration *int
	Status           *LogStatus
}

func (lp LogPatch) IsEmpty() bool {
	return lp.WaterIntake == nil && lp.ExerciseDuration == nil && lp.Status == nil
}

// LogDrift is a daily log whose stored totals disagree with its entries.
type LogDrift struct {
	LogID          int64   `json:"log_id"          db:"log_id"`
	StoredCalories float64 `json:"stored_calories" db:"stored_calories"`
	EntryCalories  float64 `json:"entry_calories"  db:"entry_calories"`
	StoredProtein  float64 `json:"stored_protein"  db:"stored_protein"`
	EntryProtein   float64 `json:"entry_protein"   db:"entry_protein"`
	StoredCarbs    float64 `json:"stored_carbs"    db:"stored_carbs"`
	EntryCarbs     float64 `json:"entry_carbs"     db:"entry_carbs"`
	StoredFats     float64 `json:"stored_fats"     db:"stored_fats"`
	EntryFats      float64 `json:"entry_fats"      db:"entry_fats"`
}

// Recommendation maps to recommendations. Rows written by one generation run
// share BatchID and CreatedAt; Position keeps rule-evaluation order.
type Recommendation struct {
	ID          int64              `json:"id"          db:"id"`
	UserID      int                `json:"user_id"     db:"user_id"`
	BatchID     uuid.UUID          `json:"batch_id"    db:"batch_id"`
	Position    int                `json:"position"    db:"position"`
	Type        RecommendationType `json:"type"        db:"type"`
	Title       string             `json:"title"       db:"title"`
	Description string             `json:"description" db:"description"`
	Priority    Priority           `json:"priority"    db:"priority"`
	IsActive    bool               `json:"is_active"   db:"is_active"`
	CreatedAt   time.Time          `json:"created_at"  db:"created_at"`
}
