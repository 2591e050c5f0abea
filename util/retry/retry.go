package retry

import (
	"context"
	"time"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/ulogger"
)

// sleepFunc is swapped out in tests.
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// BackoffAndSleep sleeps for (backoffMultiplier*retries)+1 units of durationType,
// returning early with the context error if ctx is done.
func BackoffAndSleep(ctx context.Context, retries int, backoffMultiplier int, durationType time.Duration) error {
	backoff := (backoffMultiplier * retries) + 1
	return sleepFunc(ctx, time.Duration(backoff)*durationType)
}

// Retry calls f up to retryCount times while shouldRetry accepts the returned error,
// backing off between attempts. retryCount must be at least 1.
func Retry[T any](ctx context.Context, logger ulogger.Logger, f func() (T, error), retryCount int,
	backoffMultiplier int, backoffDurationType time.Duration, shouldRetry func(error) bool, retryMessage string) (T, error) {
	var (
		result T
		err    error
	)

	if retryCount < 1 {
		return result, errors.NewInvalidArgumentError("%s: retry count must be at least 1, got %d", retryMessage, retryCount)
	}

	for i := 0; i < retryCount; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		result, err = f()
		if err == nil || !shouldRetry(err) {
			return result, err
		}

		logger.Warnf("%s (attempt %d/%d): %v", retryMessage, i+1, retryCount, err)

		if i == retryCount-1 {
			break
		}

		if sleepErr := BackoffAndSleep(ctx, i, backoffMultiplier, backoffDurationType); sleepErr != nil {
			return result, sleepErr
		}
	}

	return result, err
}
