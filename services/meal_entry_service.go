package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PDAC95/japp/models"

	"gorm.io/gorm"
)

// Meal entries older than this trigger a warning but are still accepted.
const maxBackdateDays = 30

var ErrFutureMealDate = errors.New("cannot log meals in the future")

type MealEntryService struct {
	db    *gorm.DB
	foods *FoodService
	now   func() time.Time
}

func NewMealEntryService(db *gorm.DB, foods *FoodService) *MealEntryService {
	return &MealEntryService{db: db, foods: foods, now: time.Now}
}

// CreateEntryRequest carries one manually logged food. Nutrition fields
// use the validator's FoodRecord so missing values are detectable.
type CreateEntryRequest struct {
	Food          FoodRecord `json:"food"`
	Date          string     `json:"date,omitempty"` // "2006-01-02", default today
	Time          string     `json:"time,omitempty"` // "HH:MM:SS", default now
	MealType      string     `json:"meal_type,omitempty"`
	LoggedVia     string     `json:"logged_via,omitempty"`
	OriginalInput string     `json:"original_input,omitempty"`
}

// ClassifyMealTypeByTime infers a meal type from the wall clock.
// Core windows carry high confidence; shoulder hours less; everything
// else is a snack.
func ClassifyMealTypeByTime(t time.Time) (mealType string, confidence float64, reason string) {
	hhmm := t.Format("15:04")
	switch hour := t.Hour(); {
	case hour >= 7 && hour <= 10:
		return "breakfast", 0.95, fmt.Sprintf("typical breakfast time (%s)", hhmm)
	case hour >= 12 && hour <= 14:
		return "lunch", 0.95, fmt.Sprintf("typical lunch time (%s)", hhmm)
	case hour >= 18 && hour <= 20:
		return "dinner", 0.95, fmt.Sprintf("typical dinner time (%s)", hhmm)
	case hour >= 5 && hour < 7:
		return "breakfast", 0.75, fmt.Sprintf("early breakfast (%s)", hhmm)
	case hour == 11:
		return "lunch", 0.75, fmt.Sprintf("early lunch (%s)", hhmm)
	case hour == 15:
		return "lunch", 0.70, fmt.Sprintf("late lunch (%s)", hhmm)
	case hour >= 16 && hour < 18:
		return "dinner", 0.70, fmt.Sprintf("early dinner (%s)", hhmm)
	case hour == 21:
		return "dinner", 0.70, fmt.Sprintf("late dinner (%s)", hhmm)
	default:
		return "snack", 0.90, fmt.Sprintf("outside main meal times (%s)", hhmm)
	}
}

// ValidateMealDate rejects future dates; very old dates pass with a
// warning message.
func ValidateMealDate(mealDate, today time.Time) (bool, string) {
	d := dayStart(mealDate)
	t := dayStart(today)
	if d.After(t) {
		return false, fmt.Sprintf("cannot log meals in the future (date: %s, today: %s)",
			d.Format("2006-01-02"), t.Format("2006-01-02"))
	}
	if daysAgo := int(t.Sub(d).Hours() / 24); daysAgo > maxBackdateDays {
		return true, fmt.Sprintf("logging meal from %d days ago", daysAgo)
	}
	return true, ""
}

// CreateManual validates the food (auto-correcting recoverable issues),
// classifies the meal type when absent, and persists the entry.
// Warnings are returned to the caller and mirrored onto the alert bus.
func (s *MealEntryService) CreateManual(ctx context.Context, userID uint, req CreateEntryRequest) (*models.MealEntry, []string, error) {
	now := s.now()

	date := dayStart(now)
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, now.Location())
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
		}
		date = parsed
	}
	if ok, msg := ValidateMealDate(date, now); !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrFutureMealDate, msg)
	}

	mealTime := now.Format("15:04:05")
	if req.Time != "" {
		if _, err := time.Parse("15:04:05", req.Time); err != nil {
			return nil, nil, fmt.Errorf("invalid time %q: %w", req.Time, err)
		}
		mealTime = req.Time
	}

	mealType := req.MealType
	if mealType == "" {
		parsed, _ := time.Parse("15:04:05", mealTime)
		mealType, _, _ = ClassifyMealTypeByTime(parsed)
	}

	item := ValidateFoodItem(req.Food, true)
	if !item.Valid {
		return nil, issueMessages(item.Warnings), fmt.Errorf("food validation failed: %s", item.Errors[0].Message)
	}

	loggedVia := req.LoggedVia
	if loggedVia == "" {
		loggedVia = "manual"
	}

	entry := &models.MealEntry{
		UserID:        userID,
		Date:          date,
		Time:          mealTime,
		FoodName:      item.Food.Name,
		MealType:      mealType,
		QuantityG:     ConvertToGrams(item.Food.Quantity, item.Food.Unit, 100),
		Unit:          item.Food.Unit,
		Calories:      item.Food.Calories,
		ProteinG:      item.Food.ProteinG,
		CarbsG:        item.Food.CarbsG,
		FatG:          item.Food.FatG,
		LoggedVia:     loggedVia,
		OriginalInput: req.OriginalInput,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, nil, err
	}

	warnings := issueMessages(item.Warnings)
	for _, w := range warnings {
		EmitAlert(userID, "warning", fmt.Sprintf("%s: %s", entry.FoodName, w))
	}
	EmitSummaryUpdate(ctx, userID, entry.Date)
	return entry, warnings, nil
}

// CreateFromFood scales a catalog food's per-100g nutrition to the
// requested quantity and logs it. No re-validation is needed: catalog
// data is trusted and the scaling is linear.
func (s *MealEntryService) CreateFromFood(
	ctx context.Context, userID, foodID uint, quantity float64, unit string, req CreateEntryRequest,
) (*models.MealEntry, error) {

	food, err := s.foods.GetByID(ctx, userID, foodID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if unit == "" {
		unit = "g"
	}

	grams := ConvertToGrams(quantity, unit, food.ServingSizeG)
	scaled := ScaleNutrition(Nutrition{
		Calories: food.Calories,
		ProteinG: food.ProteinG,
		CarbsG:   food.CarbsG,
		FatG:     food.FatG,
	}, 100, grams)

	req.Food = FoodRecord{
		Name:     food.Name,
		Quantity: &grams,
		Unit:     "g",
		Calories: &scaled.Calories,
		ProteinG: &scaled.ProteinG,
		CarbsG:   &scaled.CarbsG,
		FatG:     &scaled.FatG,
	}
	if req.LoggedVia == "" {
		req.LoggedVia = "catalog"
	}

	entry, _, err := s.CreateManual(ctx, userID, req)
	return entry, err
}

// UpdateEntryRequest carries the mutable fields of an entry. Nil
// nutrition pointers mean "leave unchanged".
type UpdateEntryRequest struct {
	FoodName string   `json:"food_name,omitempty"`
	MealType string   `json:"meal_type,omitempty"`
	Time     string   `json:"time,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
	ProteinG *float64 `json:"protein_g,omitempty"`
	CarbsG   *float64 `json:"carbs_g,omitempty"`
	FatG     *float64 `json:"fat_g,omitempty"`
}

// Update re-validates nutrition whenever any nutrition field changes,
// so a partial edit cannot smuggle in an inconsistent record.
func (s *MealEntryService) Update(ctx context.Context, userID, entryID uint, req UpdateEntryRequest) (*models.MealEntry, []string, error) {
	var entry models.MealEntry
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error; err != nil {
		return nil, nil, err
	}

	if req.FoodName != "" {
		entry.FoodName = req.FoodName
	}
	if req.MealType != "" {
		entry.MealType = req.MealType
	}
	if req.Time != "" {
		if _, err := time.Parse("15:04:05", req.Time); err != nil {
			return nil, nil, fmt.Errorf("invalid time %q: %w", req.Time, err)
		}
		entry.Time = req.Time
	}

	var warnings []string
	if req.Quantity != nil || req.Calories != nil || req.ProteinG != nil || req.CarbsG != nil || req.FatG != nil {
		quantity := entry.QuantityG
		calories := entry.Calories
		protein := entry.ProteinG
		carbs := entry.CarbsG
		fat := entry.FatG
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		if req.Calories != nil {
			calories = *req.Calories
		}
		if req.ProteinG != nil {
			protein = *req.ProteinG
		}
		if req.CarbsG != nil {
			carbs = *req.CarbsG
		}
		if req.FatG != nil {
			fat = *req.FatG
		}

		item := ValidateFoodItem(FoodRecord{
			Name:     entry.FoodName,
			Quantity: &quantity,
			Unit:     entry.Unit,
			Calories: &calories,
			ProteinG: &protein,
			CarbsG:   &carbs,
			FatG:     &fat,
		}, true)
		if !item.Valid {
			return nil, issueMessages(item.Warnings), fmt.Errorf("food validation failed: %s", item.Errors[0].Message)
		}
		entry.QuantityG = item.Food.Quantity
		entry.Calories = item.Food.Calories
		entry.ProteinG = item.Food.ProteinG
		entry.CarbsG = item.Food.CarbsG
		entry.FatG = item.Food.FatG
		warnings = issueMessages(item.Warnings)
	}

	if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, nil, err
	}
	EmitSummaryUpdate(ctx, userID, entry.Date)
	return &entry, warnings, nil
}

func (s *MealEntryService) Delete(ctx context.Context, userID, entryID uint) error {
	var entry models.MealEntry
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&entry).Error; err != nil {
		return err
	}
	EmitSummaryUpdate(ctx, userID, entry.Date)
	return nil
}

func (s *MealEntryService) ListForDate(ctx context.Context, userID uint, date time.Time) ([]models.MealEntry, error) {
	var entries []models.MealEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		Order("time ASC").
		Find(&entries).Error
	return entries, err
}

func (s *MealEntryService) ListByDateRange(ctx context.Context, userID uint, from, to time.Time) ([]models.MealEntry, error) {
	var entries []models.MealEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, dayStart(from), dayStart(to)).
		Order("date ASC, time ASC").
		Find(&entries).Error
	return entries, err
}

func issueMessages(issues []FieldIssue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Message)
	}
	return out
}
