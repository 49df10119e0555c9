package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/PDAC95/japp/models"

	"gorm.io/gorm"
)

// Below this |percent change| two days read as "similar".
const similarDaysPercent = 5.0

var ErrComparisonDayCount = errors.New("comparison requires between 2 and 7 days")

// ComparisonDifference holds day2 − day1 for each nutrient.
type ComparisonDifference struct {
	Calories        float64 `json:"calories"`
	Protein         float64 `json:"protein"`
	Carbs           float64 `json:"carbs"`
	Fat             float64 `json:"fat"`
	CaloriesPercent float64 `json:"calories_percent"`
}

type ComparisonResult struct {
	Days       []DailyData           `json:"days"`
	Difference *ComparisonDifference `json:"difference,omitempty"`
	Analysis   string                `json:"analysis"`
}

type ComparisonService struct {
	db *gorm.DB
}

func NewComparisonService(db *gorm.DB) *ComparisonService {
	return &ComparisonService{db: db}
}

// CompareDays diffs nutrition across 2–7 dates. Days without entries
// still participate with zero totals so the caller sees the gap.
func (s *ComparisonService) CompareDays(
	ctx context.Context, userID uint, dates []time.Time,
) (*ComparisonResult, error) {

	if len(dates) < 2 || len(dates) > 7 {
		return nil, ErrComparisonDayCount
	}

	days := make([]DailyData, 0, len(dates))
	for _, date := range dates {
		var entries []models.MealEntry
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND date = ?", userID, dayStart(date)).
			Find(&entries).Error
		if err != nil {
			return nil, err
		}
		totals := CalculateDailyTotals(date, entries)
		days = append(days, DailyData{
			Date:      totals.Date,
			Calories:  totals.TotalCalories,
			Protein:   totals.TotalProtein,
			Carbs:     totals.TotalCarbs,
			Fat:       totals.TotalFat,
			MealCount: totals.MealCount,
		})
	}

	return BuildComparison(days)
}

// BuildComparison computes the pairwise difference (exactly two days)
// and the textual analysis over already-materialized per-day totals.
func BuildComparison(days []DailyData) (*ComparisonResult, error) {
	if len(days) < 2 || len(days) > 7 {
		return nil, ErrComparisonDayCount
	}

	result := &ComparisonResult{Days: days}

	if len(days) == 2 {
		day1, day2 := days[0], days[1]
		calDiff := day2.Calories - day1.Calories
		calPercent := 0.0
		if day1.Calories > 0 {
			calPercent = calDiff / day1.Calories * 100
		}
		result.Difference = &ComparisonDifference{
			Calories:        round2(calDiff),
			Protein:         round2(day2.Protein - day1.Protein),
			Carbs:           round2(day2.Carbs - day1.Carbs),
			Fat:             round2(day2.Fat - day1.Fat),
			CaloriesPercent: round1(calPercent),
		}
	}

	result.Analysis = comparisonAnalysis(days, result.Difference)
	return result, nil
}

func comparisonAnalysis(days []DailyData, difference *ComparisonDifference) string {
	if difference != nil && len(days) == 2 {
		day2 := days[1]
		calChange := difference.Calories
		percent := difference.CaloriesPercent

		switch {
		case math.Abs(percent) < similarDaysPercent:
			return fmt.Sprintf("Very similar intake on both days (~%.0f cal difference).", math.Abs(calChange))
		case calChange > 0:
			return fmt.Sprintf("You consumed %.0f more calories on %s (+%.1f%%).", calChange, day2.Date, percent)
		default:
			return fmt.Sprintf("You consumed %.0f fewer calories on %s (%.1f%%).", math.Abs(calChange), day2.Date, percent)
		}
	}

	var sum float64
	minDay, maxDay := days[0], days[0]
	for _, d := range days {
		sum += d.Calories
		if d.Calories < minDay.Calories {
			minDay = d
		}
		if d.Calories > maxDay.Calories {
			maxDay = d
		}
	}
	avg := sum / float64(len(days))

	return fmt.Sprintf("Average across %d days: %.0f cal. Range: %.0f (%s) to %.0f (%s).",
		len(days), avg, minDay.Calories, minDay.Date, maxDay.Calories, maxDay.Date)
}
