package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// retryParse calls an AI round-trip and validates its reply, retrying on
// either a failed call or an unparseable reply. The delay doubles per
// attempt starting at baseDelay. All AI call sites share this one policy so
// retry behavior never drifts between stages.
func retryParse[T any](
	ctx context.Context,
	logger *zap.Logger,
	op string,
	attempts int,
	baseDelay time.Duration,
	call func(context.Context) (string, error),
	parse func(string) (T, error),
) (T, error) {
	var zero T
	var lastErr error

	delay := baseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if attempt > 1 && delay > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		raw, err := call(ctx)
		if err != nil {
			lastErr = fmt.Errorf("calling AI: %w", err)
			logger.Debug("AI call failed",
				zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		result, err := parse(raw)
		if err != nil {
			lastErr = fmt.Errorf("parsing AI reply: %w", err)
			logger.Debug("AI reply unparseable",
				zap.String("op", op), zap.Int("attempt", attempt),
				zap.String("reply", raw), zap.Error(err))
			continue
		}

		return result, nil
	}

	return zero, fmt.Errorf("%s: %d attempts exhausted: %w", op, attempts, lastErr)
}
