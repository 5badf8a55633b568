package domain

import (
	"time"
)

// FoodSource tags which backing store a food identifier belongs to
type FoodSource string

const (
	SourceCustom    FoodSource = "custom"
	SourceReference FoodSource = "reference"
)

// Valid reports whether s names a known source
func (s FoodSource) Valid() bool {
	return s == SourceCustom || s == SourceReference
}

// FoodRef is the stable external identity of a food across both sources
type FoodRef struct {
	Source FoodSource `json:"source"`
	ID     int64      `json:"id"`
}

// Macros holds the five core nutrition figures. Stored foods express them
// per 100 g; computed log values use the same struct for absolute amounts.
type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

// Scale multiplies every figure by factor
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		ProteinG: m.ProteinG * factor,
		CarbsG:   m.CarbsG * factor,
		FatG:     m.FatG * factor,
		FiberG:   m.FiberG * factor,
	}
}

// Add returns the element-wise sum
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		ProteinG: m.ProteinG + o.ProteinG,
		CarbsG:   m.CarbsG + o.CarbsG,
		FatG:     m.FatG + o.FatG,
		FiberG:   m.FiberG + o.FiberG,
	}
}

// Food is a catalog entry from either source
type Food struct {
	Ref       FoodRef   `json:"-"`
	Name      string    `json:"name"`
	Per100g   Macros    `json:"per_100g"`
	DataType  string    `json:"data_type,omitempty"`
	CreatedBy uint      `json:"-"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// FoodSummary is a search hit
type FoodSummary struct {
	ID       int64      `json:"id"`
	Source   FoodSource `json:"source"`
	Name     string     `json:"name"`
	Per100g  *Macros    `json:"per_100g,omitempty"`
	DataType string     `json:"data_type,omitempty"`
}

// CustomFoodInput carries user-supplied attributes for create/update.
// CaloriesPer100g is a pointer so that "absent" differs from zero.
type CustomFoodInput struct {
	Name            string   `json:"name"`
	CaloriesPer100g *float64 `json:"calories_per_100g"`
	ProteinPer100g  float64  `json:"protein_per_100g"`
	CarbsPer100g    float64  `json:"carbs_per_100g"`
	FatPer100g      float64  `json:"fat_per_100g"`
	FiberPer100g    float64  `json:"fiber_per_100g"`
}

// Nutrient is one reference nutrient amount with its metadata
type Nutrient struct {
	ID     int64   `json:"nutrient_id"`
	Name   string  `json:"nutrient_name"`
	Unit   string  `json:"unit_name"`
	Amount float64 `json:"amount"`
}

// Portion is a food and a quantity in grams
type Portion struct {
	Food     FoodRef
	Quantity float64
}

// Micros maps a micronutrient key (e.g. "sodium_mg") to its amount
type Micros map[string]float64

// LogEntry is one consumption event owned by a user
type LogEntry struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Food      FoodRef   `json:"food"`
	Quantity  float64   `json:"quantity_g"`
	EatenAt   time.Time `json:"eaten_at"`
	CreatedAt time.Time `json:"created_at"`
}

// LoggedFood is the food part of an aggregated log line
type LoggedFood struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Source FoodSource `json:"source"`
}

// RoundedMacros are whole-unit nutrition figures as reported to callers
type RoundedMacros struct {
	Calories int64 `json:"calories"`
	ProteinG int64 `json:"protein_g"`
	CarbsG   int64 `json:"carbs_g"`
	FatG     int64 `json:"fat_g"`
	FiberG   int64 `json:"fiber_g"`
}

// LogLine is one aggregated log entry with its computed nutrition
type LogLine struct {
	ID       uint          `json:"id"`
	EatenAt  time.Time     `json:"eaten_at"`
	Quantity float64       `json:"quantity_g"`
	Food     LoggedFood    `json:"food"`
	Computed RoundedMacros `json:"calculated"`
}

// DaySummary is the aggregation over one window
type DaySummary struct {
	Date   string        `json:"date,omitempty"`
	Logs   []LogLine     `json:"logs"`
	Totals RoundedMacros `json:"totals"`
	Micros Micros        `json:"micros,omitempty"`
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// Profile is a user's body and activity data; at most one per user
type Profile struct {
	UserID        uint          `json:"-"`
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender"`
	HeightCm      float64       `json:"height_cm"`
	WeightKg      float64       `json:"weight_kg"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
	UpdatedAt     time.Time     `json:"updated_at,omitempty"`
}

// ProfilePatch carries only the fields a caller actually supplied
type ProfilePatch struct {
	Age           *int           `json:"age,omitempty"`
	Gender        *Gender        `json:"gender,omitempty"`
	HeightCm      *float64       `json:"height_cm,omitempty"`
	WeightKg      *float64       `json:"weight_kg,omitempty"`
	ActivityLevel *ActivityLevel `json:"activity_level,omitempty"`
	Goal          *Goal          `json:"goal,omitempty"`
}

// Empty reports whether no field is set
func (p ProfilePatch) Empty() bool {
	return p.Age == nil && p.Gender == nil && p.HeightCm == nil &&
		p.WeightKg == nil && p.ActivityLevel == nil && p.Goal == nil
}

// MacroTargets is the daily gram split
type MacroTargets struct {
	ProteinG int64 `json:"protein_g"`
	FatG     int64 `json:"fat_g"`
	CarbsG   int64 `json:"carbs_g"`
}

// Targets is the computed daily goal
type Targets struct {
	BMR            int64        `json:"bmr"`
	TDEE           int64        `json:"tdee"`
	TargetCalories int64        `json:"target_calories"`
	Macros         MacroTargets `json:"macros"`
}

// User is an application user as known to the telegram front-end
type User struct {
	ID         uint
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	CreatedAt  time.Time
}
