package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/PDAC95/japp/models"

	"gorm.io/gorm"
)

// Goal-progress thresholds (percent of goal).
const (
	statusUnderThreshold = 80.0
	statusOverThreshold  = 115.0
)

// One kilogram of body mass is roughly 7700 kcal.
const caloriesPerKg = 7700.0

// Fasting window of 16h or more counts as intermittent fasting.
const intermittentFastingHours = 16.0

const defaultGoalCalories = 2000.0

// MealTypes is the canonical meal order used for breakdowns and
// projection bookkeeping.
var MealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

type DailyTotals struct {
	Date           string  `json:"date"`
	TotalCalories  float64 `json:"total_calories"`
	TotalProtein   float64 `json:"total_protein"`
	TotalCarbs     float64 `json:"total_carbs"`
	TotalFat       float64 `json:"total_fat"`
	ProteinPercent float64 `json:"protein_percent"`
	CarbsPercent   float64 `json:"carbs_percent"`
	FatPercent     float64 `json:"fat_percent"`
	MealCount      int     `json:"meal_count"`
}

type MealTypeBreakdown struct {
	MealType       string  `json:"meal_type"`
	Calories       float64 `json:"calories"`
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatG           float64 `json:"fat_g"`
	PercentOfDaily float64 `json:"percent_of_daily"`
	MealCount      int     `json:"meal_count"`
}

// ProgressMetric tracks one nutrient against its goal. Remaining may
// be negative when the goal is exceeded.
type ProgressMetric struct {
	Consumed  float64 `json:"consumed"`
	Goal      float64 `json:"goal"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
	Status    string  `json:"status"` // under | on_track | over
}

type CalorieBalance struct {
	Consumed           float64 `json:"consumed"`
	Goal               float64 `json:"goal"`
	Deficit            float64 `json:"deficit"` // positive = deficit
	DeficitPercent     float64 `json:"deficit_percent"`
	WeeklyImpact       float64 `json:"weekly_impact"`
	WeeklyWeightChange float64 `json:"weekly_weight_change_kg"`
}

type EatingWindow struct {
	FirstMealTime         *string  `json:"first_meal_time"`
	LastMealTime          *string  `json:"last_meal_time"`
	EatingWindowHours     *float64 `json:"eating_window_hours"`
	FastingWindowHours    *float64 `json:"fasting_window_hours"`
	IsIntermittentFasting bool     `json:"is_intermittent_fasting"`
}

type EndOfDayProjection struct {
	CurrentTime       string   `json:"current_time"`
	CurrentCalories   float64  `json:"current_calories"`
	ProjectedTotal    float64  `json:"projected_total"`
	Confidence        float64  `json:"confidence"`
	Recommendation    string   `json:"recommendation"` // need_more | on_track | slow_down
	RemainingBudget   float64  `json:"remaining_budget"`
	MealsRemaining    []string `json:"meals_remaining"`
	SuggestedCalories float64  `json:"suggested_calories"`
}

type DailySummaryResponse struct {
	Date            string              `json:"date"`
	Totals          DailyTotals         `json:"totals"`
	ByMealType      []MealTypeBreakdown `json:"by_meal_type"`
	CalorieProgress *ProgressMetric     `json:"calorie_progress,omitempty"`
	ProteinProgress *ProgressMetric     `json:"protein_progress,omitempty"`
	CarbsProgress   *ProgressMetric     `json:"carbs_progress,omitempty"`
	FatProgress     *ProgressMetric     `json:"fat_progress,omitempty"`
	CalorieBalance  *CalorieBalance     `json:"calorie_balance,omitempty"`
	EatingWindow    EatingWindow        `json:"eating_window"`
	Projection      *EndOfDayProjection `json:"projection,omitempty"`
	HasGoals        bool                `json:"has_goals"`
}

type DailySummaryService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDailySummaryService(db *gorm.DB) *DailySummaryService {
	return &DailySummaryService{db: db, now: time.Now}
}

// GetDailySummary fetches the day's entries and goals, then delegates
// to the pure BuildDailySummary.
func (s *DailySummaryService) GetDailySummary(
	ctx context.Context, userID uint, date time.Time, includeProjection bool,
) (*DailySummaryResponse, error) {

	entries, err := s.entriesForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	goals, err := s.goalsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return BuildDailySummary(date, entries, goals, includeProjection, s.now())
}

// BuildDailySummary computes the full summary from already-fetched
// records. goals may be nil (progress and balance are omitted). A
// malformed entry time fails the whole request: eating-window and
// projection math cannot proceed without it.
func BuildDailySummary(
	date time.Time,
	entries []models.MealEntry,
	goals *models.NutritionGoal,
	includeProjection bool,
	now time.Time,
) (*DailySummaryResponse, error) {

	totals := CalculateDailyTotals(date, entries)
	byMealType := CalculateMealTypeBreakdown(entries, totals.TotalCalories)

	resp := &DailySummaryResponse{
		Date:       date.Format("2006-01-02"),
		Totals:     totals,
		ByMealType: byMealType,
		HasGoals:   goals != nil,
	}

	if goals != nil {
		calorie := calculateProgress(totals.TotalCalories, goals.DailyCalories)
		protein := calculateProgress(totals.TotalProtein, goals.ProteinG)
		carbs := calculateProgress(totals.TotalCarbs, goals.CarbsG)
		fat := calculateProgress(totals.TotalFat, goals.FatG)
		balance := calculateCalorieBalance(totals.TotalCalories, goals.DailyCalories)

		resp.CalorieProgress = &calorie
		resp.ProteinProgress = &protein
		resp.CarbsProgress = &carbs
		resp.FatProgress = &fat
		resp.CalorieBalance = &balance
	}

	window, err := CalculateEatingWindow(entries)
	if err != nil {
		return nil, err
	}
	resp.EatingWindow = window

	if includeProjection && shouldProject(date, now) {
		goalCalories := defaultGoalCalories
		if goals != nil {
			goalCalories = goals.DailyCalories
		}
		p := calculateProjection(totals.TotalCalories, goalCalories, byMealType, now)
		resp.Projection = &p
	}

	return resp, nil
}

// CalculateDailyTotals sums the day's entries; empty input yields a
// zeroed structure, never an error.
func CalculateDailyTotals(date time.Time, entries []models.MealEntry) DailyTotals {
	totals := DailyTotals{Date: date.Format("2006-01-02")}
	if len(entries) == 0 {
		return totals
	}

	items := make([]Nutrition, 0, len(entries))
	for _, e := range entries {
		items = append(items, Nutrition{
			Calories: e.Calories,
			ProteinG: e.ProteinG,
			CarbsG:   e.CarbsG,
			FatG:     e.FatG,
		})
	}
	sum := AggregateNutrition(items)

	totals.TotalCalories = sum.Calories
	totals.TotalProtein = round1(sum.ProteinG)
	totals.TotalCarbs = round1(sum.CarbsG)
	totals.TotalFat = round1(sum.FatG)
	totals.MealCount = len(entries)

	// Macro percentages relative to consumed calories, not the
	// macro-derived total, so stated calories stay authoritative.
	if sum.Calories > 0 {
		totals.ProteinPercent = round1(sum.ProteinG * ProteinCalPerG / sum.Calories * 100)
		totals.CarbsPercent = round1(sum.CarbsG * CarbsCalPerG / sum.Calories * 100)
		totals.FatPercent = round1(sum.FatG * FatCalPerG / sum.Calories * 100)
	}
	return totals
}

// CalculateMealTypeBreakdown groups entries by meal type in canonical
// order (breakfast, lunch, dinner, snack); unknown types sort last.
func CalculateMealTypeBreakdown(entries []models.MealEntry, totalCalories float64) []MealTypeBreakdown {
	byType := map[string][]models.MealEntry{}
	for _, e := range entries {
		byType[e.MealType] = append(byType[e.MealType], e)
	}

	breakdowns := make([]MealTypeBreakdown, 0, len(byType))
	for mealType, group := range byType {
		var sum Nutrition
		for _, e := range group {
			sum.Calories += e.Calories
			sum.ProteinG += e.ProteinG
			sum.CarbsG += e.CarbsG
			sum.FatG += e.FatG
		}
		percent := 0.0
		if totalCalories > 0 {
			percent = round1(sum.Calories / totalCalories * 100)
		}
		breakdowns = append(breakdowns, MealTypeBreakdown{
			MealType:       mealType,
			Calories:       round2(sum.Calories),
			ProteinG:       round1(sum.ProteinG),
			CarbsG:         round1(sum.CarbsG),
			FatG:           round1(sum.FatG),
			PercentOfDaily: percent,
			MealCount:      len(group),
		})
	}

	order := map[string]int{}
	for i, t := range MealTypes {
		order[t] = i
	}
	sort.Slice(breakdowns, func(i, j int) bool {
		oi, ok := order[breakdowns[i].MealType]
		if !ok {
			oi = 99
		}
		oj, ok := order[breakdowns[j].MealType]
		if !ok {
			oj = 99
		}
		if oi != oj {
			return oi < oj
		}
		return breakdowns[i].MealType < breakdowns[j].MealType
	})
	return breakdowns
}

// calculateProgress classifies consumption against a goal. Status is
// decided on the exact percent, before rounding for display.
func calculateProgress(consumed, goal float64) ProgressMetric {
	percent := 0.0
	if goal > 0 {
		percent = consumed / goal * 100
	}

	status := "on_track"
	switch {
	case percent < statusUnderThreshold:
		status = "under"
	case percent > statusOverThreshold:
		status = "over"
	}

	return ProgressMetric{
		Consumed:  round1(consumed),
		Goal:      round1(goal),
		Remaining: round1(goal - consumed),
		Percent:   round1(percent),
		Status:    status,
	}
}

func calculateCalorieBalance(consumed, goal float64) CalorieBalance {
	deficit := goal - consumed
	deficitPercent := 0.0
	if goal > 0 {
		deficitPercent = deficit / goal * 100
	}
	weeklyImpact := deficit * 7

	return CalorieBalance{
		Consumed:           round2(consumed),
		Goal:               round2(goal),
		Deficit:            round2(deficit),
		DeficitPercent:     round1(deficitPercent),
		WeeklyImpact:       round2(weeklyImpact),
		WeeklyWeightChange: round2(weeklyImpact / caloriesPerKg),
	}
}

// CalculateEatingWindow finds the span between the first and last meal
// of the day. Without entries every field is null and the fasting flag
// is false.
func CalculateEatingWindow(entries []models.MealEntry) (EatingWindow, error) {
	if len(entries) == 0 {
		return EatingWindow{}, nil
	}

	first, last := entries[0].Time, entries[0].Time
	firstMin, err := minutesOfDay(entries[0].Time)
	if err != nil {
		return EatingWindow{}, err
	}
	lastMin := firstMin

	for _, e := range entries[1:] {
		m, err := minutesOfDay(e.Time)
		if err != nil {
			return EatingWindow{}, err
		}
		if m < firstMin {
			firstMin, first = m, e.Time
		}
		if m > lastMin {
			lastMin, last = m, e.Time
		}
	}

	eating := round1(float64(lastMin-firstMin) / 60)
	fasting := round1(24 - eating)

	return EatingWindow{
		FirstMealTime:         &first,
		LastMealTime:          &last,
		EatingWindowHours:     &eating,
		FastingWindowHours:    &fasting,
		IsIntermittentFasting: fasting >= intermittentFastingHours,
	}, nil
}

func minutesOfDay(hhmmss string) (int, error) {
	t, err := time.Parse("15:04:05", hhmmss)
	if err != nil {
		return 0, fmt.Errorf("invalid meal time %q: %w", hhmmss, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// shouldProject limits projections to today before 23:00; past days
// are final and future days have nothing to extrapolate from.
func shouldProject(date time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if !target.Equal(today) {
		return false
	}
	return now.Hour() < 23
}

// calculateProjection estimates the end-of-day total. The projected
// total extrapolates from the rate of consumption so far rather than
// assuming the remaining budget gets eaten, which would always land
// exactly on the goal.
func calculateProjection(
	currentCalories, goalCalories float64,
	byMealType []MealTypeBreakdown,
	now time.Time,
) EndOfDayProjection {

	logged := map[string]bool{}
	for _, b := range byMealType {
		logged[b.MealType] = true
	}
	mealsRemaining := []string{}
	for _, t := range MealTypes {
		if !logged[t] {
			mealsRemaining = append(mealsRemaining, t)
		}
	}

	remainingBudget := goalCalories - currentCalories

	hour := now.Hour()
	confidence := 0.5
	switch {
	case hour >= 20: // evening, probably done eating
		confidence = 0.9
	case hour >= 16:
		confidence = 0.75
	case hour >= 12:
		confidence = 0.6
	}
	if len(logged) >= 3 {
		confidence += 0.1
	}
	confidence = math.Min(confidence, 1.0)

	projected := currentCalories
	if len(mealsRemaining) > 0 {
		projected = ProjectDailyTotals(Nutrition{Calories: currentCalories}, hour).Calories
	}

	recommendation := "on_track"
	if goalCalories > 0 {
		switch progress := currentCalories / goalCalories; {
		case progress < 0.70:
			recommendation = "need_more"
		case progress > 1.10:
			recommendation = "slow_down"
		}
	}

	return EndOfDayProjection{
		CurrentTime:       now.Format("15:04:05"),
		CurrentCalories:   round2(currentCalories),
		ProjectedTotal:    round2(projected),
		Confidence:        round2(confidence),
		Recommendation:    recommendation,
		RemainingBudget:   round2(remainingBudget),
		MealsRemaining:    mealsRemaining,
		SuggestedCalories: round2(math.Max(0, remainingBudget)),
	}
}

// ---------- fetch helpers ----------

func (s *DailySummaryService) entriesForDate(ctx context.Context, userID uint, date time.Time) ([]models.MealEntry, error) {
	var entries []models.MealEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		Order("time ASC").
		Find(&entries).Error
	return entries, err
}

func (s *DailySummaryService) goalsFor(ctx context.Context, userID uint) (*models.NutritionGoal, error) {
	var g models.NutritionGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // goals unset is a normal state
		}
		return nil, err
	}
	return &g, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
