package utils

import (
	"context"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
)

// ContainsString reports whether slice holds str.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

// GoSafe runs fn in a new goroutine and logs a recovered panic instead of crashing.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered",
					logger.Field("panic", r),
					logger.StringField("stack", string(debug.Stack())),
				)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

// ShouldContinue returns false once ctx is done, logging the calling function.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		caller := "unknown"
		if pc, _, _, ok := runtime.Caller(1); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				parts := strings.Split(fn.Name(), "/")
				caller = parts[len(parts)-1]
			}
		}
		log.WarnContext(ctx, "Context cancelled", logger.StringField("caller", caller))
		return false
	default:
		return true
	}
}

// NormalizeSlug lowercases and trims a coin slug or ticker.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
