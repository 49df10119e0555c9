package models

import (
	"time"

	"gorm.io/gorm"
)

// One logged food. Date is truncated to midnight; Time keeps the
// wall-clock "HH:MM:SS" so the eating-window math works without timezones.
type MealEntry struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Date   time.Time `gorm:"index;not null"`
	Time   string    `gorm:"size:8;not null"` // "HH:MM:SS"

	FoodName string `gorm:"not null"`
	MealType string `gorm:"size:16"` // breakfast|lunch|dinner|snack

	QuantityG float64
	Unit      string `gorm:"size:32;default:'g'"`

	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64

	LoggedVia     string `gorm:"size:16;default:'manual'"` // manual|ai_text|ai_photo|catalog
	OriginalInput string `gorm:"type:text"`
}
