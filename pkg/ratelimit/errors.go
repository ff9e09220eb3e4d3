package ratelimit

import "errors"

var ErrExceedsCapacity = errors.New("requested tokens exceed limiter capacity")
