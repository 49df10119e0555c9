package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildComparisonTwoDays(t *testing.T) {
	t.Parallel()

	days := []DailyData{
		{Date: "2026-08-20", Calories: 2300, Protein: 110, Carbs: 260, Fat: 80},
		{Date: "2026-08-21", Calories: 1850, Protein: 95, Carbs: 200, Fat: 65},
	}
	result, err := BuildComparison(days)
	require.NoError(t, err)
	require.NotNil(t, result.Difference)

	d := result.Difference
	assert.Equal(t, -450.0, d.Calories)
	assert.Equal(t, -15.0, d.Protein)
	assert.Equal(t, -19.6, d.CaloriesPercent)
	assert.Equal(t, "You consumed 450 fewer calories on 2026-08-21 (-19.6%).", result.Analysis)
}

func TestBuildComparisonSimilarDays(t *testing.T) {
	t.Parallel()

	days := []DailyData{
		{Date: "2026-08-20", Calories: 2000},
		{Date: "2026-08-21", Calories: 2040},
	}
	result, err := BuildComparison(days)
	require.NoError(t, err)
	assert.Equal(t, "Very similar intake on both days (~40 cal difference).", result.Analysis)
}

func TestBuildComparisonMoreCalories(t *testing.T) {
	t.Parallel()

	days := []DailyData{
		{Date: "2026-08-20", Calories: 1800},
		{Date: "2026-08-21", Calories: 2160},
	}
	result, err := BuildComparison(days)
	require.NoError(t, err)
	assert.Equal(t, "You consumed 360 more calories on 2026-08-21 (+20.0%).", result.Analysis)
}

func TestBuildComparisonMultiDay(t *testing.T) {
	t.Parallel()

	days := []DailyData{
		{Date: "2026-08-19", Calories: 1700},
		{Date: "2026-08-20", Calories: 2000},
		{Date: "2026-08-21", Calories: 2300},
	}
	result, err := BuildComparison(days)
	require.NoError(t, err)
	assert.Nil(t, result.Difference) // pairwise diff only applies to exactly two days
	assert.Equal(t, "Average across 3 days: 2000 cal. Range: 1700 (2026-08-19) to 2300 (2026-08-21).", result.Analysis)
}

func TestBuildComparisonDayCount(t *testing.T) {
	t.Parallel()

	_, err := BuildComparison([]DailyData{{Date: "2026-08-20"}})
	assert.ErrorIs(t, err, ErrComparisonDayCount)

	eight := make([]DailyData, 8)
	_, err = BuildComparison(eight)
	assert.ErrorIs(t, err, ErrComparisonDayCount)
}

func TestBuildComparisonEmptyDayParticipates(t *testing.T) {
	t.Parallel()

	days := []DailyData{
		{Date: "2026-08-20", Calories: 0},
		{Date: "2026-08-21", Calories: 1850},
	}
	result, err := BuildComparison(days)
	require.NoError(t, err)
	require.NotNil(t, result.Difference)
	assert.Equal(t, 1850.0, result.Difference.Calories)
	assert.Zero(t, result.Difference.CaloriesPercent) // no baseline to divide by
}
