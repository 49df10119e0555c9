package services

import (
	"testing"
	"time"

	"github.com/PDAC95/japp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(mealType, clock string, calories, protein, carbs, fat float64) models.MealEntry {
	return models.MealEntry{
		MealType: mealType,
		Time:     clock,
		Calories: calories,
		ProteinG: protein,
		CarbsG:   carbs,
		FatG:     fat,
	}
}

func TestCalculateDailyTotals(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	entries := []models.MealEntry{
		entry("breakfast", "08:00:00", 500, 30, 50, 20),
		entry("lunch", "13:00:00", 700, 40, 80, 25),
	}

	totals := CalculateDailyTotals(date, entries)
	assert.Equal(t, "2026-08-24", totals.Date)
	assert.Equal(t, 1200.0, totals.TotalCalories)
	assert.Equal(t, 70.0, totals.TotalProtein)
	assert.Equal(t, 130.0, totals.TotalCarbs)
	assert.Equal(t, 45.0, totals.TotalFat)
	assert.Equal(t, 2, totals.MealCount)

	// Percentages are relative to consumed calories.
	assert.Equal(t, 23.3, totals.ProteinPercent)
	assert.Equal(t, 43.3, totals.CarbsPercent)
	assert.Equal(t, 33.8, totals.FatPercent)
}

func TestCalculateDailyTotalsEmpty(t *testing.T) {
	t.Parallel()

	totals := CalculateDailyTotals(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), nil)
	assert.Zero(t, totals.TotalCalories)
	assert.Zero(t, totals.MealCount)
	assert.Zero(t, totals.ProteinPercent)
}

func TestCalculateMealTypeBreakdownOrder(t *testing.T) {
	t.Parallel()

	entries := []models.MealEntry{
		entry("snack", "22:00:00", 150, 5, 20, 6),
		entry("brunch", "11:00:00", 400, 20, 40, 15), // unknown type sorts last
		entry("breakfast", "08:00:00", 450, 25, 45, 18),
		entry("breakfast", "09:00:00", 50, 2, 8, 1),
	}

	breakdowns := CalculateMealTypeBreakdown(entries, 1050)
	require.Len(t, breakdowns, 3)
	assert.Equal(t, "breakfast", breakdowns[0].MealType)
	assert.Equal(t, "snack", breakdowns[1].MealType)
	assert.Equal(t, "brunch", breakdowns[2].MealType)

	assert.Equal(t, 500.0, breakdowns[0].Calories)
	assert.Equal(t, 2, breakdowns[0].MealCount)
	assert.Equal(t, 47.6, breakdowns[0].PercentOfDaily)
}

func TestProgressStatusBoundaries(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	goals := &models.NutritionGoal{DailyCalories: 1000, ProteinG: 100, CarbsG: 200, FatG: 60}

	cases := []struct {
		calories float64
		status   string
	}{
		{799.9, "under"},
		{800, "on_track"}, // exactly 80% counts as on track
		{1000, "on_track"},
		{1150, "on_track"}, // exactly 115% still on track
		{1151, "over"},
	}
	for _, tc := range cases {
		entries := []models.MealEntry{entry("lunch", "13:00:00", tc.calories, 0, 0, 0)}
		resp, err := BuildDailySummary(date, entries, goals, false, date)
		require.NoError(t, err)
		require.NotNil(t, resp.CalorieProgress)
		assert.Equal(t, tc.status, resp.CalorieProgress.Status, "calories=%v", tc.calories)
	}
}

func TestCalorieBalance(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	goals := &models.NutritionGoal{DailyCalories: 2000}
	entries := []models.MealEntry{entry("dinner", "19:00:00", 1650, 80, 150, 60)}

	resp, err := BuildDailySummary(date, entries, goals, false, date)
	require.NoError(t, err)
	require.NotNil(t, resp.CalorieBalance)

	b := resp.CalorieBalance
	assert.Equal(t, 350.0, b.Deficit)
	assert.Equal(t, 17.5, b.DeficitPercent)
	assert.Equal(t, 2450.0, b.WeeklyImpact)
	assert.Equal(t, 0.32, b.WeeklyWeightChange) // 2450 / 7700 kcal per kg
}

func TestCalculateEatingWindow(t *testing.T) {
	t.Parallel()

	entries := []models.MealEntry{
		entry("dinner", "20:30:00", 700, 0, 0, 0),
		entry("breakfast", "08:00:00", 400, 0, 0, 0),
		entry("lunch", "13:00:00", 600, 0, 0, 0),
	}
	window, err := CalculateEatingWindow(entries)
	require.NoError(t, err)
	require.NotNil(t, window.FirstMealTime)
	assert.Equal(t, "08:00:00", *window.FirstMealTime)
	assert.Equal(t, "20:30:00", *window.LastMealTime)
	assert.Equal(t, 12.5, *window.EatingWindowHours)
	assert.Equal(t, 11.5, *window.FastingWindowHours)
	assert.False(t, window.IsIntermittentFasting)
}

func TestCalculateEatingWindowIntermittentFasting(t *testing.T) {
	t.Parallel()

	entries := []models.MealEntry{
		entry("lunch", "12:00:00", 600, 0, 0, 0),
		entry("dinner", "19:00:00", 800, 0, 0, 0),
	}
	window, err := CalculateEatingWindow(entries)
	require.NoError(t, err)
	assert.Equal(t, 7.0, *window.EatingWindowHours)
	assert.Equal(t, 17.0, *window.FastingWindowHours)
	assert.True(t, window.IsIntermittentFasting)
}

func TestCalculateEatingWindowBadTime(t *testing.T) {
	t.Parallel()

	entries := []models.MealEntry{entry("lunch", "25:99", 600, 0, 0, 0)}
	_, err := CalculateEatingWindow(entries)
	assert.Error(t, err)

	// The error propagates through the whole summary.
	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	_, err = BuildDailySummary(date, entries, nil, false, date)
	assert.Error(t, err)
}

func TestCalculateEatingWindowEmpty(t *testing.T) {
	t.Parallel()

	window, err := CalculateEatingWindow(nil)
	require.NoError(t, err)
	assert.Nil(t, window.FirstMealTime)
	assert.Nil(t, window.EatingWindowHours)
	assert.False(t, window.IsIntermittentFasting)
}

func TestProjectionMidAfternoon(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 24, 14, 30, 0, 0, time.UTC)
	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	goals := &models.NutritionGoal{DailyCalories: 2000}
	entries := []models.MealEntry{
		entry("breakfast", "08:00:00", 450, 25, 45, 18),
		entry("lunch", "13:00:00", 650, 35, 70, 22),
	}

	resp, err := BuildDailySummary(date, entries, goals, true, now)
	require.NoError(t, err)
	require.NotNil(t, resp.Projection)

	p := resp.Projection
	assert.Equal(t, 1100.0, p.CurrentCalories)
	assert.Equal(t, 900.0, p.RemainingBudget)
	assert.Equal(t, []string{"dinner", "snack"}, p.MealsRemaining)
	// Extrapolated from the pace so far, not pinned to the goal.
	assert.InDelta(t, 1885.71, p.ProjectedTotal, 0.01)
	assert.Equal(t, 0.6, p.Confidence) // 12:00-16:00 band, only two meal types logged
	assert.Equal(t, "need_more", p.Recommendation)
	assert.Equal(t, 900.0, p.SuggestedCalories)
}

func TestProjectionConfidenceBoost(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 24, 20, 15, 0, 0, time.UTC)
	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	entries := []models.MealEntry{
		entry("breakfast", "08:00:00", 450, 0, 0, 0),
		entry("lunch", "13:00:00", 650, 0, 0, 0),
		entry("dinner", "19:30:00", 800, 0, 0, 0),
	}

	resp, err := BuildDailySummary(date, entries, nil, true, now)
	require.NoError(t, err)
	require.NotNil(t, resp.Projection)
	// Evening base 0.9 plus the three-meal-types boost, capped at 1.0.
	assert.Equal(t, 1.0, resp.Projection.Confidence)
}

func TestProjectionSuppressed(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	entries := []models.MealEntry{entry("lunch", "13:00:00", 600, 0, 0, 0)}

	// Past days are final.
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	resp, err := BuildDailySummary(date, entries, nil, true, now)
	require.NoError(t, err)
	assert.Nil(t, resp.Projection)

	// After 23:00 the day is as good as over.
	now = time.Date(2026, 8, 24, 23, 30, 0, 0, time.UTC)
	resp, err = BuildDailySummary(date, entries, nil, true, now)
	require.NoError(t, err)
	assert.Nil(t, resp.Projection)

	// Caller opted out.
	now = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	resp, err = BuildDailySummary(date, entries, nil, false, now)
	require.NoError(t, err)
	assert.Nil(t, resp.Projection)
}

func TestBuildDailySummaryWithoutGoals(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	entries := []models.MealEntry{entry("lunch", "13:00:00", 600, 30, 60, 20)}

	resp, err := BuildDailySummary(date, entries, nil, false, date)
	require.NoError(t, err)
	assert.False(t, resp.HasGoals)
	assert.Nil(t, resp.CalorieProgress)
	assert.Nil(t, resp.CalorieBalance)
	assert.Equal(t, 600.0, resp.Totals.TotalCalories)
}
