package model

import (
	"time"

	"gorm.io/datatypes"
)

// YearlyPrediction stores one year of monthly predictions for a token.
// Months holds the JSON encoded []prediction.MonthlyPrediction.
type YearlyPrediction struct {
	ID           uint           `gorm:"primaryKey"`
	TokenSlug    string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_yearly_predictions_slug_year"`
	Year         int            `gorm:"not null;uniqueIndex:idx_yearly_predictions_slug_year"`
	Months       datatypes.JSON `gorm:"type:jsonb;not null"`
	CurrentPrice float64        `gorm:"not null"`
	GeneratedAt  time.Time      `gorm:"not null"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (YearlyPrediction) TableName() string {
	return "yearly_predictions"
}
