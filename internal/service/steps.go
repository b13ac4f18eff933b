package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Clock returns the current time; tests substitute a fixed one.
type Clock func() time.Time

// followUp runs a non-critical write that follows a committed one. A failure is
// logged and swallowed; the primary write stays in place.
func followUp(ctx context.Context, log *zap.Logger, step string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		log.Warn("follow-up step failed", zap.String("step", step), zap.Error(err))
	}
}
