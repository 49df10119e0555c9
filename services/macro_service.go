package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
)

// Calorie factors (kcal per gram).
const (
	ProteinCalPerG = 4
	CarbsCalPerG   = 4
	FatCalPerG     = 9
)

// CalorieTolerancePercent is the accepted relative gap between stated
// and macro-derived calories.
const CalorieTolerancePercent = 0.05

var ErrNegativeMacros = errors.New("macro values cannot be negative")

// Nutrition is the macro snapshot shared by calculator, validator and
// the summary engine. All values are grams except Calories.
type Nutrition struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// CaloriesFromMacros computes (protein×4 + carbs×4 + fat×9), rounded
// to 2 decimals.
func CaloriesFromMacros(proteinG, carbsG, fatG float64) (float64, error) {
	if proteinG < 0 || carbsG < 0 || fatG < 0 {
		return 0, ErrNegativeMacros
	}
	cal := proteinG*ProteinCalPerG + carbsG*CarbsCalPerG + fatG*FatCalPerG
	return round2(cal), nil
}

// ValidateCalorieMatch checks stated calories against the macro-derived
// value. A zero calculated total is trivially valid (no macros given).
func ValidateCalorieMatch(stated, proteinG, carbsG, fatG float64) (bool, float64, string) {
	calculated, err := CaloriesFromMacros(proteinG, carbsG, fatG)
	if err != nil {
		return false, 0, err.Error()
	}
	if calculated == 0 {
		return true, 0, "no macros provided"
	}

	discrepancy := math.Abs(stated-calculated) / calculated * 100
	if discrepancy <= CalorieTolerancePercent*100 {
		return true, round2(discrepancy), "calorie calculation valid (within 5% tolerance)"
	}
	msg := fmt.Sprintf("calorie mismatch: stated %.2f cal, calculated %.2f cal (discrepancy: %.1f%%)",
		stated, calculated, discrepancy)
	return false, round2(discrepancy), msg
}

// ConvertToGrams maps a quantity in the given unit to grams.
// Count/volume units (cup, piece, serving) use servingSizeG; unknown
// units are assumed to already be grams and only logged, never rejected.
func ConvertToGrams(quantity float64, unit string, servingSizeG float64) float64 {
	if servingSizeG <= 0 {
		servingSizeG = 100
	}
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "gr", "gram", "grams", "gramos", "ml", "milliliter", "milliliters":
		return quantity
	case "kg", "kilogram", "kilograms", "kilogramos":
		return quantity * 1000
	case "oz", "ounce", "ounces", "onzas":
		return quantity * 28.35
	case "lb", "lbs", "pound", "pounds", "libras":
		return quantity * 453.592
	case "cup", "cups", "taza", "tazas":
		return quantity * servingSizeG
	case "piece", "pieces", "pieza", "piezas", "unidad", "unidades":
		return quantity * servingSizeG
	case "serving", "servings", "porción", "porciones":
		return quantity * servingSizeG
	case "tbsp", "tablespoon", "cucharada", "cucharadas":
		return quantity * 15
	case "tsp", "teaspoon", "cucharadita", "cucharaditas":
		return quantity * 5
	default:
		log.Printf("unknown unit %q, assuming grams", unit)
		return quantity
	}
}

// ScaleNutrition linearly scales a per-baseG nutrition snapshot to
// actualG. Each field rounds independently to 2 decimals.
func ScaleNutrition(base Nutrition, baseG, actualG float64) Nutrition {
	if baseG <= 0 {
		return Nutrition{}
	}
	factor := actualG / baseG
	return Nutrition{
		Calories: round2(base.Calories * factor),
		ProteinG: round2(base.ProteinG * factor),
		CarbsG:   round2(base.CarbsG * factor),
		FatG:     round2(base.FatG * factor),
	}
}

// AggregateNutrition sums a list of snapshots field-wise. Empty input
// yields the zero value.
func AggregateNutrition(items []Nutrition) Nutrition {
	var out Nutrition
	for _, it := range items {
		out.Calories += it.Calories
		out.ProteinG += it.ProteinG
		out.CarbsG += it.CarbsG
		out.FatG += it.FatG
	}
	out.Calories = round2(out.Calories)
	out.ProteinG = round2(out.ProteinG)
	out.CarbsG = round2(out.CarbsG)
	out.FatG = round2(out.FatG)
	return out
}

// MacroPercentages returns each macro's share of macro-derived calories.
func MacroPercentages(proteinG, carbsG, fatG float64) (proteinPct, carbsPct, fatPct float64) {
	total := proteinG*ProteinCalPerG + carbsG*CarbsCalPerG + fatG*FatCalPerG
	if total <= 0 {
		return 0, 0, 0
	}
	proteinPct = round2(proteinG * ProteinCalPerG / total * 100)
	carbsPct = round2(carbsG * CarbsCalPerG / total * 100)
	fatPct = round2(fatG * FatCalPerG / total * 100)
	return proteinPct, carbsPct, fatPct
}

// ProjectDailyTotals extrapolates end-of-day totals assuming linear
// consumption through the day. hour is clamped to [1, 24].
func ProjectDailyTotals(consumed Nutrition, hour int) Nutrition {
	if hour < 1 {
		hour = 1
	}
	if hour > 24 {
		hour = 24
	}
	factor := 24.0 / float64(hour)
	return Nutrition{
		Calories: round2(consumed.Calories * factor),
		ProteinG: round2(consumed.ProteinG * factor),
		CarbsG:   round2(consumed.CarbsG * factor),
		FatG:     round2(consumed.FatG * factor),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
