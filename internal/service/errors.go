package service

import "errors"

var (
	ErrPriceUnavailable = errors.New("price unavailable")
	ErrUnknownJob       = errors.New("unknown job type")
)
