package models

import (
	"gorm.io/gorm"
)

// NutritionGoal holds each user’s daily intake targets.
type NutritionGoal struct {
	gorm.Model
	UserID        uint    `gorm:"uniqueIndex;not null"`
	DailyCalories float64 // e.g. 2200 kcal
	ProteinG      float64 // e.g. 150 g
	CarbsG        float64 // e.g. 200 g
	FatG          float64 // e.g. 65 g
}
