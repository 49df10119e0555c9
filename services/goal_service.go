package services

import (
	"context"
	"errors"

	"github.com/PDAC95/japp/models"

	"gorm.io/gorm"
)

type GoalService struct {
	db *gorm.DB
}

func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db}
}

// Get returns the user's goals, or nil when none are set. Unset goals
// are a normal state, not an error.
func (s *GoalService) Get(ctx context.Context, userID uint) (*models.NutritionGoal, error) {
	var g models.NutritionGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (s *GoalService) Upsert(ctx context.Context, userID uint, calories, protein, carbs, fat float64) (*models.NutritionGoal, error) {
	if calories < 0 || protein < 0 || carbs < 0 || fat < 0 {
		return nil, errors.New("goal values cannot be negative")
	}

	var goal models.NutritionGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = models.NutritionGoal{
			UserID:        userID,
			DailyCalories: calories,
			ProteinG:      protein,
			CarbsG:        carbs,
			FatG:          fat,
		}
		if err := s.db.WithContext(ctx).Create(&goal).Error; err != nil {
			return nil, err
		}
		return &goal, nil
	}
	if err != nil {
		return nil, err
	}

	goal.DailyCalories = calories
	goal.ProteinG = protein
	goal.CarbsG = carbs
	goal.FatG = fat
	if err := s.db.WithContext(ctx).Save(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}
