package repository

import "errors"

var (
	ErrTokenNotFound   = errors.New("token not found")
	ErrInsightDisabled = errors.New("insight generation is not configured")
	ErrEmptyHistory    = errors.New("market data provider returned no prices")
)
