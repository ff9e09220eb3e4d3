package model

import "time"

// Token is a listed coin. Slug is the public identifier used in URLs and
// CoinGeckoID the identifier sent to the market data provider.
type Token struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Symbol      string    `gorm:"type:varchar(30);not null" json:"symbol"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	CoinGeckoID string    `gorm:"column:coingecko_id;type:varchar(100);not null" json:"coingecko_id"`
	Rank        int       `gorm:"not null;default:0" json:"rank"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Token) TableName() string {
	return "tokens"
}

type ListTokenParam struct {
	Limit      int
	ActiveOnly bool
}
