package menus

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
)

func TestFormatDaySummary(t *testing.T) {
	s := &domain.DaySummary{
		Logs: []domain.LogLine{
			{ID: 1, EatenAt: time.Now(), Quantity: 150, Food: domain.LoggedFood{Name: "Rice"}, Computed: domain.RoundedMacros{Calories: 195}},
			{ID: 2, EatenAt: time.Now(), Quantity: 37.5, Food: domain.LoggedFood{Name: "Almonds"}, Computed: domain.RoundedMacros{Calories: 217}},
		},
		Totals: domain.RoundedMacros{Calories: 412, ProteinG: 12, CarbsG: 50, FatG: 19, FiberG: 5},
		Micros: domain.Micros{"sodium_mg": 3, "iron_mg": 1.5, "vitamin_b12_mcg": 0},
	}

	text := FormatDaySummary("📊 Today", s)
	assert.Contains(t, text, "• Rice: 150g, 195 kcal")
	assert.Contains(t, text, "• Almonds: 37.5g, 217 kcal")
	assert.Contains(t, text, "Total: 412 kcal")
	assert.Contains(t, text, "Protein 12g · Carbs 50g · Fat 19g · Fiber 5g")
	assert.Contains(t, text, "• Iron: 1.5 mg")
	assert.Contains(t, text, "• Vitamin b12: 0 mcg")
	assert.Less(t, strings.Index(text, "Iron"), strings.Index(text, "Sodium"))
}

func TestFormatDaySummaryEmpty(t *testing.T) {
	text := FormatDaySummary("📊 Today", &domain.DaySummary{})
	assert.Contains(t, text, "Nothing logged yet.")
	assert.NotContains(t, text, "Micronutrients")
}

func TestFormatTargets(t *testing.T) {
	text := FormatTargets(
		&domain.Targets{BMR: 1674, TDEE: 2595, TargetCalories: 2595, Macros: domain.MacroTargets{ProteinG: 162, FatG: 72, CarbsG: 324}},
		&domain.Profile{ActivityLevel: domain.ActivityVeryActive, Goal: domain.GoalMaintain},
	)
	assert.Contains(t, text, "very active")
	assert.Contains(t, text, "Target: 2595 kcal")
	assert.Contains(t, text, "Protein 162g · Fat 72g · Carbs 324g")
}

func TestTrimFloat(t *testing.T) {
	assert.Equal(t, "100", trimFloat(100))
	assert.Equal(t, "37.5", trimFloat(37.5))
	assert.Equal(t, "0", trimFloat(0))
}

