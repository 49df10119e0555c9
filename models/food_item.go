package models

import "gorm.io/gorm"

// A catalog food. Nutrition is stored per 100 g; ServingSizeG backs
// count/volume units (cup, piece, serving) when scaling to a quantity.
// UserID is zero for system foods and set for user-created ones.
type FoodItem struct {
	gorm.Model
	Name     string `gorm:"index;not null"`
	Category string
	UserID   uint `gorm:"index"` // 0 = system food
	Verified bool `gorm:"default:false"`

	ServingSizeG float64 `gorm:"default:100"`
	Calories     float64 // per 100 g
	ProteinG     float64
	CarbsG       float64
	FatG         float64
}
