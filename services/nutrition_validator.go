package services

import (
	"fmt"
	"math"
	"strings"
)

// Validation constants.
const (
	MaxCaloriesPerFood = 5000
	MaxPortionGrams    = 2000
	MaxLiquidML        = 10000 // 10 liters
	MinQuantity        = 0.01
)

// FoodRecord is an untrusted food candidate: either user input or the
// AI-extraction output. Pointer fields distinguish "absent" from zero.
type FoodRecord struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit,omitempty"`
	Calories *float64 `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
}

// FieldIssue is one diagnostic produced while validating a record.
type FieldIssue struct {
	Field          string  `json:"field"`
	Message        string  `json:"message"`
	Severity       string  `json:"severity"` // "error" | "warning"
	OriginalValue  any     `json:"original_value,omitempty"`
	CorrectedValue any     `json:"corrected_value,omitempty"`
}

// ValidatedFood is a record that survived validation, with every
// numeric field resolved and rounded.
type ValidatedFood struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// ItemValidation is the full outcome of validating a single record.
// Valid is true iff no hard errors occurred; warnings never invalidate.
type ItemValidation struct {
	Valid    bool          `json:"is_valid"`
	Food     ValidatedFood `json:"food"`
	Errors   []FieldIssue  `json:"errors,omitempty"`
	Warnings []FieldIssue  `json:"warnings,omitempty"`
}

// ValidationResult is the batch outcome for a whole meal.
type ValidationResult struct {
	Valid         bool            `json:"is_valid"`
	Errors        []string        `json:"errors"`
	Warnings      []string        `json:"warnings"`
	Foods         []ValidatedFood `json:"foods"`
	TotalCalories float64         `json:"total_calories"`
	TotalMacros   Nutrition       `json:"total_macros"`
}

// ValidateFoodItem applies the validation rules to one record. With
// autoCorrect, recoverable issues (negative values, calorie/macro
// mismatch) are clamped or recalculated and downgraded to warnings;
// otherwise they reject the record. The call holds no shared state, so
// concurrent validations need no coordination.
func ValidateFoodItem(rec FoodRecord, autoCorrect bool) ItemValidation {
	out := ItemValidation{}

	// Required fields.
	var missing []string
	if rec.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if rec.Calories == nil {
		missing = append(missing, "calories")
	}
	if rec.ProteinG == nil {
		missing = append(missing, "protein_g")
	}
	if rec.CarbsG == nil {
		missing = append(missing, "carbs_g")
	}
	if rec.FatG == nil {
		missing = append(missing, "fat_g")
	}
	if missing != nil {
		out.Errors = append(out.Errors, FieldIssue{
			Field:    "structure",
			Message:  fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
			Severity: "error",
		})
		return out
	}

	name := strings.TrimSpace(rec.Name)
	if name == "" {
		out.Errors = append(out.Errors, FieldIssue{
			Field:         "name",
			Message:       "food name cannot be empty",
			Severity:      "error",
			OriginalValue: rec.Name,
		})
		return out
	}
	out.Food.Name = name

	unit := strings.TrimSpace(rec.Unit)
	if unit == "" {
		unit = "g"
	}
	out.Food.Unit = unit

	// Quantity.
	quantity := *rec.Quantity
	if quantity < 0 {
		if autoCorrect {
			out.Warnings = append(out.Warnings, FieldIssue{
				Field:          "quantity",
				Message:        "negative quantity corrected to 0",
				Severity:       "warning",
				OriginalValue:  quantity,
				CorrectedValue: 0,
			})
			quantity = 0
		} else {
			out.Errors = append(out.Errors, FieldIssue{
				Field:         "quantity",
				Message:       "quantity cannot be negative",
				Severity:      "error",
				OriginalValue: quantity,
			})
			return out
		}
	}
	// Zero quantity is unusable even after clamping.
	if quantity < MinQuantity {
		out.Errors = append(out.Errors, FieldIssue{
			Field:         "quantity",
			Message:       fmt.Sprintf("quantity must be > %v", MinQuantity),
			Severity:      "error",
			OriginalValue: quantity,
		})
		return out
	}
	switch strings.ToLower(unit) {
	case "g", "gram", "grams":
		if quantity > MaxPortionGrams {
			out.Warnings = append(out.Warnings, FieldIssue{
				Field:         "quantity",
				Message:       fmt.Sprintf("portion size %.0fg exceeds realistic maximum of %dg", quantity, MaxPortionGrams),
				Severity:      "warning",
				OriginalValue: quantity,
			})
		}
	case "ml", "milliliter", "milliliters":
		if quantity > MaxLiquidML {
			out.Warnings = append(out.Warnings, FieldIssue{
				Field:         "quantity",
				Message:       fmt.Sprintf("liquid volume %.0fml exceeds maximum of %dml", quantity, MaxLiquidML),
				Severity:      "warning",
				OriginalValue: quantity,
			})
		}
	}
	out.Food.Quantity = round2(quantity)

	// Calories.
	calories := *rec.Calories
	if calories < 0 {
		if autoCorrect {
			out.Warnings = append(out.Warnings, FieldIssue{
				Field:          "calories",
				Message:        "negative calories corrected to 0",
				Severity:       "warning",
				OriginalValue:  calories,
				CorrectedValue: 0,
			})
			calories = 0
		} else {
			out.Errors = append(out.Errors, FieldIssue{
				Field:         "calories",
				Message:       "calories cannot be negative",
				Severity:      "error",
				OriginalValue: calories,
			})
			return out
		}
	}
	if calories > MaxCaloriesPerFood {
		out.Warnings = append(out.Warnings, FieldIssue{
			Field:         "calories",
			Message:       fmt.Sprintf("calories %.0f exceeds realistic maximum of %d", calories, MaxCaloriesPerFood),
			Severity:      "warning",
			OriginalValue: calories,
		})
	}
	calories = round2(calories)

	// Macros.
	proteinG, carbsG, fatG := *rec.ProteinG, *rec.CarbsG, *rec.FatG
	type negMacro struct {
		field string
		value float64
	}
	var negatives []negMacro
	if proteinG < 0 {
		negatives = append(negatives, negMacro{"protein_g", proteinG})
	}
	if carbsG < 0 {
		negatives = append(negatives, negMacro{"carbs_g", carbsG})
	}
	if fatG < 0 {
		negatives = append(negatives, negMacro{"fat_g", fatG})
	}
	if negatives != nil && !autoCorrect {
		for _, n := range negatives {
			out.Errors = append(out.Errors, FieldIssue{
				Field:         n.field,
				Message:       fmt.Sprintf("%s cannot be negative", n.field),
				Severity:      "error",
				OriginalValue: n.value,
			})
		}
		return out
	}
	for _, n := range negatives {
		out.Warnings = append(out.Warnings, FieldIssue{
			Field:          n.field,
			Message:        fmt.Sprintf("negative %s corrected to 0", n.field),
			Severity:       "warning",
			OriginalValue:  n.value,
			CorrectedValue: 0,
		})
	}
	proteinG = math.Max(0, proteinG)
	carbsG = math.Max(0, carbsG)
	fatG = math.Max(0, fatG)

	// Calorie/macro consistency. The 5-calorie floor avoids false
	// positives on near-zero foods.
	calculated := proteinG*ProteinCalPerG + carbsG*CarbsCalPerG + fatG*FatCalPerG
	tolerance := math.Max(calculated*CalorieTolerancePercent, 5)
	if math.Abs(calories-calculated) > tolerance {
		if autoCorrect {
			out.Warnings = append(out.Warnings, FieldIssue{
				Field: "calories",
				Message: fmt.Sprintf("calorie mismatch: stated=%.2f, calculated=%.1f, using calculated value",
					calories, calculated),
				Severity:       "warning",
				OriginalValue:  calories,
				CorrectedValue: round2(calculated),
			})
			calories = round2(calculated)
		} else {
			out.Errors = append(out.Errors, FieldIssue{
				Field: "calories",
				Message: fmt.Sprintf("calories (%.2f) don't match macro calculation (%.1f) within 5%% tolerance",
					calories, calculated),
				Severity:      "error",
				OriginalValue: calories,
			})
			return out
		}
	}

	out.Food.Calories = calories
	out.Food.ProteinG = round2(proteinG)
	out.Food.CarbsG = round2(carbsG)
	out.Food.FatG = round2(fatG)
	out.Valid = len(out.Errors) == 0
	return out
}

// ValidateMealData validates every record in a batch independently.
// Hard-failed items are dropped from the corrected batch; their errors
// keep an index/name prefix so callers can report them. Valid is false
// if any item failed, even though surviving items still populate the
// totals; accepting partial results is the caller's decision.
func ValidateMealData(foods []FoodRecord, autoCorrect bool) ValidationResult {
	result := ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
		Foods:    []ValidatedFood{},
	}

	var kept []Nutrition
	for idx, rec := range foods {
		name := rec.Name
		if strings.TrimSpace(name) == "" {
			name = "unknown"
		}
		item := ValidateFoodItem(rec, autoCorrect)
		for _, w := range item.Warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Food %d (%s): %s", idx, name, w.Message))
		}
		if !item.Valid {
			for _, e := range item.Errors {
				result.Errors = append(result.Errors, fmt.Sprintf("Food %d (%s): %s", idx, name, e.Message))
			}
			continue
		}
		result.Foods = append(result.Foods, item.Food)
		kept = append(kept, Nutrition{
			Calories: item.Food.Calories,
			ProteinG: item.Food.ProteinG,
			CarbsG:   item.Food.CarbsG,
			FatG:     item.Food.FatG,
		})
	}

	totals := AggregateNutrition(kept)
	result.TotalCalories = totals.Calories
	result.TotalMacros = totals
	result.Valid = len(result.Errors) == 0
	return result
}
