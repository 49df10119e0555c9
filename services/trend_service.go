package services

import (
	"context"
	"math"
	"time"

	"github.com/PDAC95/japp/models"

	"gorm.io/gorm"
)

// A daily calorie swing of more than 5% between half-ranges counts as
// a trend; consistency bottoms out at 40% coefficient of variation.
const (
	trendThresholdPercent = 5.0
	maxVariancePercent    = 40.0
)

// DailyData is one day's totals inside a trend or comparison range.
type DailyData struct {
	Date      string  `json:"date"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
	MealCount int     `json:"meal_count"`
}

type WeeklyAverages struct {
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
	MealCount float64 `json:"meal_count"`
}

type WeeklyTrends struct {
	DateRange        [2]string      `json:"date_range"`
	DaysWithData     int            `json:"days_with_data"`
	DailyAverages    WeeklyAverages `json:"daily_averages"`
	DailyData        []DailyData    `json:"daily_data"`
	Trend            string         `json:"trend"` // increasing | decreasing | stable
	Variance         float64        `json:"variance"`
	ConsistencyScore float64        `json:"consistency_score"`
}

type TrendService struct {
	db *gorm.DB
}

func NewTrendService(db *gorm.DB) *TrendService {
	return &TrendService{db: db}
}

// GetWeeklyTrends walks the date range, keeping only days that have at
// least one entry, and derives averages, trend, variance and the
// consistency score from them.
func (s *TrendService) GetWeeklyTrends(
	ctx context.Context, userID uint, startDate, endDate time.Time,
) (*WeeklyTrends, error) {

	var dailyData []DailyData
	for d := dayStart(startDate); !d.After(endDate); d = d.AddDate(0, 0, 1) {
		var entries []models.MealEntry
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND date = ?", userID, d).
			Find(&entries).Error
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			continue // skip, do not count as a zero day
		}
		totals := CalculateDailyTotals(d, entries)
		dailyData = append(dailyData, DailyData{
			Date:      totals.Date,
			Calories:  totals.TotalCalories,
			Protein:   totals.TotalProtein,
			Carbs:     totals.TotalCarbs,
			Fat:       totals.TotalFat,
			MealCount: totals.MealCount,
		})
	}

	return BuildWeeklyTrends(startDate, endDate, dailyData), nil
}

// BuildWeeklyTrends computes the trend report over already-materialized
// per-day totals.
func BuildWeeklyTrends(startDate, endDate time.Time, dailyData []DailyData) *WeeklyTrends {
	averages := WeeklyAverages{}
	if n := float64(len(dailyData)); n > 0 {
		for _, d := range dailyData {
			averages.Calories += d.Calories
			averages.Protein += d.Protein
			averages.Carbs += d.Carbs
			averages.Fat += d.Fat
			averages.MealCount += float64(d.MealCount)
		}
		averages.Calories = round1(averages.Calories / n)
		averages.Protein = round1(averages.Protein / n)
		averages.Carbs = round1(averages.Carbs / n)
		averages.Fat = round1(averages.Fat / n)
		averages.MealCount = round1(averages.MealCount / n)
	}

	variance := CalorieVariance(dailyData)

	if dailyData == nil {
		dailyData = []DailyData{}
	}
	return &WeeklyTrends{
		DateRange:        [2]string{startDate.Format("2006-01-02"), endDate.Format("2006-01-02")},
		DaysWithData:     len(dailyData),
		DailyAverages:    averages,
		DailyData:        dailyData,
		Trend:            AnalyzeTrend(dailyData),
		Variance:         round2(variance),
		ConsistencyScore: round2(ConsistencyScore(variance)),
	}
}

// AnalyzeTrend compares average calories of the first and second half
// of the range (odd counts give the smaller half to the front). A
// relative change above 5% in either direction is a trend.
func AnalyzeTrend(dailyData []DailyData) string {
	if len(dailyData) < 2 {
		return "stable"
	}

	mid := len(dailyData) / 2
	var firstSum, secondSum float64
	for _, d := range dailyData[:mid] {
		firstSum += d.Calories
	}
	for _, d := range dailyData[mid:] {
		secondSum += d.Calories
	}
	firstAvg := firstSum / float64(mid)
	secondAvg := secondSum / float64(len(dailyData)-mid)

	if firstAvg <= 0 {
		return "stable"
	}
	change := (secondAvg - firstAvg) / firstAvg * 100
	switch {
	case change > trendThresholdPercent:
		return "increasing"
	case change < -trendThresholdPercent:
		return "decreasing"
	default:
		return "stable"
	}
}

// CalorieVariance is the coefficient of variation of daily calories,
// in percent. Fewer than two days or a zero mean yield 0.
func CalorieVariance(dailyData []DailyData) float64 {
	if len(dailyData) < 2 {
		return 0
	}

	n := float64(len(dailyData))
	var sum float64
	for _, d := range dailyData {
		sum += d.Calories
	}
	mean := sum / n
	if mean <= 0 {
		return 0
	}

	var sq float64
	for _, d := range dailyData {
		diff := d.Calories - mean
		sq += diff * diff
	}
	stdev := math.Sqrt(sq / (n - 1)) // sample standard deviation

	return stdev / mean * 100
}

// ConsistencyScore maps variance onto [0, 1]: 1.0 at zero variance,
// 0.0 from 40% up, linear in between.
func ConsistencyScore(variance float64) float64 {
	switch {
	case variance <= 0:
		return 1.0
	case variance >= maxVariancePercent:
		return 0.0
	default:
		return 1.0 - variance/maxVariancePercent
	}
}
