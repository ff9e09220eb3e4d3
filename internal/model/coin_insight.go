package model

import "time"

// CoinInsight is AI generated commentary on a token's prediction overview.
type CoinInsight struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	TokenSlug   string    `gorm:"type:varchar(100);not null;index" json:"slug"`
	Model       string    `gorm:"type:varchar(100);not null" json:"model"`
	Prompt      string    `gorm:"type:text;not null" json:"-"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	TotalTokens int       `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CoinInsight) TableName() string {
	return "coin_insights"
}
