package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaloriesFromMacros(t *testing.T) {
	t.Parallel()

	cal, err := CaloriesFromMacros(30, 40, 10)
	require.NoError(t, err)
	assert.Equal(t, 370.0, cal)

	cal, err = CaloriesFromMacros(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cal)

	_, err = CaloriesFromMacros(-1, 0, 0)
	assert.ErrorIs(t, err, ErrNegativeMacros)
}

func TestValidateCalorieMatch(t *testing.T) {
	t.Parallel()

	valid, discrepancy, _ := ValidateCalorieMatch(100, 10, 10, 2.2)
	assert.True(t, valid)
	assert.InDelta(t, 0.2, discrepancy, 0.01)

	valid, discrepancy, msg := ValidateCalorieMatch(200, 10, 10, 5)
	assert.False(t, valid)
	assert.InDelta(t, 60.0, discrepancy, 0.01)
	assert.Contains(t, msg, "calorie mismatch")

	// No macros at all is trivially valid.
	valid, _, _ = ValidateCalorieMatch(150, 0, 0, 0)
	assert.True(t, valid)
}

func TestConvertToGrams(t *testing.T) {
	t.Parallel()

	cases := []struct {
		quantity float64
		unit     string
		serving  float64
		want     float64
	}{
		{50, "g", 100, 50},
		{250, "ml", 100, 250},
		{1, "kg", 100, 1000},
		{2, "oz", 100, 56.7},
		{1, "lb", 100, 453.592},
		{2, "cup", 150, 300},
		{3, "piece", 50, 150},
		{1.5, "serving", 200, 300},
		{3, "tbsp", 100, 45},
		{2, "tsp", 100, 10},
		{2, "TAZAS", 120, 240}, // case-insensitive, Spanish alias
		{75, "blorp", 100, 75}, // unknown unit falls back to grams
	}
	for _, tc := range cases {
		got := ConvertToGrams(tc.quantity, tc.unit, tc.serving)
		assert.InDelta(t, tc.want, got, 1e-9, "unit %q", tc.unit)
	}

	// Non-positive serving size defaults to 100 g.
	assert.Equal(t, 200.0, ConvertToGrams(2, "cup", 0))
}

func TestScaleNutrition(t *testing.T) {
	t.Parallel()

	apple := Nutrition{Calories: 52, ProteinG: 0.3, CarbsG: 14, FatG: 0.2}
	scaled := ScaleNutrition(apple, 100, 150)
	assert.Equal(t, Nutrition{Calories: 78, ProteinG: 0.45, CarbsG: 21, FatG: 0.3}, scaled)

	// Scaling back down recovers the original within rounding.
	back := ScaleNutrition(scaled, 150, 100)
	assert.InDelta(t, apple.Calories, back.Calories, 0.01)
	assert.InDelta(t, apple.ProteinG, back.ProteinG, 0.01)

	assert.Equal(t, Nutrition{}, ScaleNutrition(apple, 0, 150))
}

func TestAggregateNutrition(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Nutrition{}, AggregateNutrition(nil))

	sum := AggregateNutrition([]Nutrition{
		{Calories: 235, ProteinG: 40, CarbsG: 0, FatG: 8.3},
		{Calories: 165, ProteinG: 10, CarbsG: 20, FatG: 5},
	})
	assert.Equal(t, 400.0, sum.Calories)
	assert.Equal(t, 50.0, sum.ProteinG)
	assert.Equal(t, 20.0, sum.CarbsG)
	assert.Equal(t, 13.3, sum.FatG)
}

func TestMacroPercentages(t *testing.T) {
	t.Parallel()

	p, c, f := MacroPercentages(25, 25, 0)
	assert.Equal(t, 50.0, p)
	assert.Equal(t, 50.0, c)
	assert.Equal(t, 0.0, f)

	p, c, f = MacroPercentages(0, 0, 0)
	assert.Zero(t, p)
	assert.Zero(t, c)
	assert.Zero(t, f)
}

func TestProjectDailyTotals(t *testing.T) {
	t.Parallel()

	got := ProjectDailyTotals(Nutrition{Calories: 1200}, 12)
	assert.Equal(t, 2400.0, got.Calories)

	// hour is clamped to [1, 24]
	assert.Equal(t, 2400.0, ProjectDailyTotals(Nutrition{Calories: 100}, 0).Calories)
	assert.Equal(t, 100.0, ProjectDailyTotals(Nutrition{Calories: 100}, 30).Calories)
}
