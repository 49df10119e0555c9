package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/PDAC95/japp/models"

	"gorm.io/gorm"
)

type FoodService struct {
	db *gorm.DB
}

func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{db: db}
}

// FoodSearchResult is one scored catalog hit.
type FoodSearchResult struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	IsCustom       bool    `json:"is_custom"`
	Verified       bool    `json:"verified"`
	ServingSizeG   float64 `json:"serving_size_g"`
	Calories       float64 `json:"calories"` // per 100 g
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatG           float64 `json:"fat_g"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Search matches system foods plus the user's custom foods and ranks
// them: exact name match > prefix > substring, with boosts for custom
// and verified entries. Custom foods win name collisions.
func (s *FoodService) Search(ctx context.Context, userID uint, query string, limit int) ([]FoodSearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []FoodSearchResult{}, nil
	}

	var foods []models.FoodItem
	err := s.db.WithContext(ctx).
		Where("(user_id = 0 OR user_id = ?) AND LOWER(name) LIKE ?", userID, "%"+q+"%").
		Find(&foods).Error
	if err != nil {
		return nil, err
	}

	results := make([]FoodSearchResult, 0, len(foods))
	seen := map[string]int{} // lowered name -> index in results
	for _, f := range foods {
		r := FoodSearchResult{
			ID:             f.ID,
			Name:           f.Name,
			Category:       f.Category,
			IsCustom:       f.UserID != 0,
			Verified:       f.Verified,
			ServingSizeG:   f.ServingSizeG,
			Calories:       f.Calories,
			ProteinG:       f.ProteinG,
			CarbsG:         f.CarbsG,
			FatG:           f.FatG,
			RelevanceScore: RelevanceScore(f.Name, q, f.UserID != 0, f.Verified),
		}

		key := strings.ToLower(f.Name)
		if prev, ok := seen[key]; ok {
			// duplicate name: prefer the user's custom food
			if r.IsCustom && !results[prev].IsCustom {
				results[prev] = r
			}
			continue
		}
		seen[key] = len(results)
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// RelevanceScore ranks a catalog name against a lowered query.
func RelevanceScore(name, loweredQuery string, isCustom, verified bool) float64 {
	n := strings.ToLower(name)

	var score float64
	switch {
	case n == loweredQuery:
		score = 1.0
	case strings.HasPrefix(n, loweredQuery):
		score = 0.8
	case strings.Contains(n, loweredQuery):
		score = 0.5
	default:
		score = 0.2
	}

	if isCustom {
		score += 0.15
	}
	if verified {
		score += 0.05
	}
	if score > 1.0 {
		score = 1.0
	}
	return round2(score)
}

// GetByID returns a system food or one of the user's custom foods.
func (s *FoodService) GetByID(ctx context.Context, userID, foodID uint) (*models.FoodItem, error) {
	var food models.FoodItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND (user_id = 0 OR user_id = ?)", foodID, userID).
		First(&food).Error
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// CreateCustom validates the per-100g nutrition before storing a
// user-defined food.
func (s *FoodService) CreateCustom(ctx context.Context, userID uint, food models.FoodItem) (*models.FoodItem, error) {
	name := strings.TrimSpace(food.Name)
	if name == "" {
		return nil, errors.New("food name is required")
	}
	if food.Calories < 0 || food.ProteinG < 0 || food.CarbsG < 0 || food.FatG < 0 {
		return nil, errors.New("nutrition values cannot be negative")
	}
	if ok, _, msg := ValidateCalorieMatch(food.Calories, food.ProteinG, food.CarbsG, food.FatG); !ok {
		return nil, errors.New(msg)
	}

	food.Name = name
	food.UserID = userID
	food.Verified = false
	if food.ServingSizeG <= 0 {
		food.ServingSizeG = 100
	}
	if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

// NutritionPreview scales a catalog food to a quantity without logging it.
type NutritionPreview struct {
	Food      FoodSearchResult `json:"food"`
	Quantity  float64          `json:"quantity"`
	Unit      string           `json:"unit"`
	QuantityG float64          `json:"quantity_g"`
	Nutrition Nutrition        `json:"nutrition"`
}

func (s *FoodService) Preview(ctx context.Context, userID, foodID uint, quantity float64, unit string) (*NutritionPreview, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	food, err := s.GetByID(ctx, userID, foodID)
	if err != nil {
		return nil, err
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

	return &NutritionPreview{
		Food: FoodSearchResult{
			ID: food.ID, Name: food.Name, Category: food.Category,
			IsCustom: food.UserID != 0, Verified: food.Verified,
			ServingSizeG: food.ServingSizeG,
			Calories:     food.Calories, ProteinG: food.ProteinG,
			CarbsG: food.CarbsG, FatG: food.FatG,
		},
		Quantity:  quantity,
		Unit:      unit,
		QuantityG: round2(grams),
		Nutrition: scaled,
	}, nil
}
