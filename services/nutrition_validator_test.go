package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(name string, quantity, calories, protein, carbs, fat float64) FoodRecord {
	return FoodRecord{
		Name:     name,
		Quantity: &quantity,
		Calories: &calories,
		ProteinG: &protein,
		CarbsG:   &carbs,
		FatG:     &fat,
	}
}

func TestValidateFoodItemConsistent(t *testing.T) {
	t.Parallel()

	// 40p + 0c + 8.3f = 234.7 cal, stated 235 is well within tolerance.
	out := ValidateFoodItem(rec("Chicken Breast", 150, 235, 40, 0, 8.3), true)
	require.True(t, out.Valid)
	assert.Empty(t, out.Errors)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, 235.0, out.Food.Calories) // stated value kept
	assert.Equal(t, "g", out.Food.Unit)
	assert.Equal(t, 150.0, out.Food.Quantity)
}

func TestValidateFoodItemCalorieMismatch(t *testing.T) {
	t.Parallel()

	// Macros derive 165 cal; stated 200 is off by far more than 5%.
	mismatched := rec("Rice Bowl", 200, 200, 10, 20, 5)

	out := ValidateFoodItem(mismatched, true)
	require.True(t, out.Valid)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "calories", out.Warnings[0].Field)
	assert.Equal(t, 165.0, out.Food.Calories) // corrected to the macro-derived value

	out = ValidateFoodItem(mismatched, false)
	assert.False(t, out.Valid)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0].Message, "don't match macro calculation")
}

func TestValidateFoodItemCorrectionIsIdempotent(t *testing.T) {
	t.Parallel()

	out := ValidateFoodItem(rec("Rice Bowl", 200, 200, 10, 20, 5), true)
	require.True(t, out.Valid)

	again := ValidateFoodItem(rec(out.Food.Name, out.Food.Quantity, out.Food.Calories,
		out.Food.ProteinG, out.Food.CarbsG, out.Food.FatG), true)
	require.True(t, again.Valid)
	assert.Empty(t, again.Warnings)
	assert.Equal(t, out.Food, again.Food)
}

func TestValidateFoodItemZeroQuantity(t *testing.T) {
	t.Parallel()

	out := ValidateFoodItem(rec("Water", 0, 0, 0, 0, 0), true)
	assert.False(t, out.Valid)
	require.NotEmpty(t, out.Errors)
	assert.Equal(t, "quantity", out.Errors[0].Field)

	// Negative quantity clamps to 0, which still fails the minimum.
	out = ValidateFoodItem(rec("Water", -10, 0, 0, 0, 0), true)
	assert.False(t, out.Valid)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "negative quantity corrected to 0", out.Warnings[0].Message)
}

func TestValidateFoodItemMissingFields(t *testing.T) {
	t.Parallel()

	quantity := 100.0
	out := ValidateFoodItem(FoodRecord{Name: "Mystery", Quantity: &quantity}, true)
	assert.False(t, out.Valid)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "structure", out.Errors[0].Field)
	assert.Contains(t, out.Errors[0].Message, "calories")
	assert.Contains(t, out.Errors[0].Message, "fat_g")
}

func TestValidateFoodItemEmptyName(t *testing.T) {
	t.Parallel()

	out := ValidateFoodItem(rec("   ", 100, 100, 10, 10, 2.2), true)
	assert.False(t, out.Valid)
	assert.Equal(t, "name", out.Errors[0].Field)
}

func TestValidateFoodItemRangeWarnings(t *testing.T) {
	t.Parallel()

	// 2500 g is suspicious but not fatal.
	out := ValidateFoodItem(rec("Rice", 2500, 100, 10, 10, 2.2), true)
	assert.True(t, out.Valid)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0].Message, "2000g")

	// Liquids get the ml ceiling instead.
	r := rec("Broth", 12000, 100, 10, 10, 2.2)
	r.Unit = "ml"
	out = ValidateFoodItem(r, true)
	assert.True(t, out.Valid)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0].Message, "10000ml")

	// 6000 cal with matching macros: warned, never corrected.
	out = ValidateFoodItem(rec("Party Platter", 1500, 6000, 0, 0, 666.67), true)
	assert.True(t, out.Valid)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0].Message, "exceeds realistic maximum of 5000")
	assert.Equal(t, 6000.0, out.Food.Calories)
}

func TestValidateFoodItemNegativeMacros(t *testing.T) {
	t.Parallel()

	r := rec("Odd Food", 100, 40, -5, 10, 0)

	out := ValidateFoodItem(r, true)
	require.True(t, out.Valid)
	assert.Equal(t, 0.0, out.Food.ProteinG)

	out = ValidateFoodItem(r, false)
	assert.False(t, out.Valid)
	assert.Equal(t, "protein_g", out.Errors[0].Field)
}

func TestValidateMealDataDropsFailedItems(t *testing.T) {
	t.Parallel()

	foods := []FoodRecord{
		rec("Chicken Breast", 150, 235, 40, 0, 8.3),
		rec("", 100, 100, 10, 10, 2.2),       // empty name
		rec("Rice Bowl", 200, 200, 10, 20, 5), // corrected
	}
	result := ValidateMealData(foods, true)

	assert.False(t, result.Valid) // one item failed
	require.Len(t, result.Foods, 2)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Food 1 (unknown):")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Food 2 (Rice Bowl):")

	// Totals only count survivors: 235 + 165.
	assert.Equal(t, 400.0, result.TotalCalories)
	assert.Equal(t, 50.0, result.TotalMacros.ProteinG)
}

func TestValidateMealDataEmptyBatch(t *testing.T) {
	t.Parallel()

	result := ValidateMealData(nil, true)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Foods)
	assert.Zero(t, result.TotalCalories)
}
