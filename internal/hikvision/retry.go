package hikvision

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// RetryOptions bound the retry loop around a single OpenAPI call.
type RetryOptions struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryOptions returns 3 retries starting at 1s, doubling, capped at 10s.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}
}

// Delay returns the wait before retry number attempt (0 based):
// min(InitialDelay * BackoffFactor^attempt, MaxDelay).
func (o RetryOptions) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(o.InitialDelay) * math.Pow(o.BackoffFactor, float64(attempt))
	if math.IsInf(d, 0) || math.IsNaN(d) || d > float64(o.MaxDelay) {
		return o.MaxDelay
	}
	return time.Duration(d)
}

// Retry calls fn until it succeeds, returns a non-retryable error, the
// retry budget is spent, or ctx is done. fn runs at most MaxRetries+1 times.
func Retry[T any](ctx context.Context, opts RetryOptions, log *zap.SugaredLogger, op string, fn func(context.Context) (T, error)) (T, error) {
	var (
		res T
		err error
	)
	for attempt := 0; ; attempt++ {
		res, err = fn(ctx)
		if err == nil {
			return res, nil
		}
		if attempt >= opts.MaxRetries || !IsRetryable(err) || ctx.Err() != nil {
			break
		}

		delay := opts.Delay(attempt)
		log.Warnw("hikvision call failed, retrying",
			"op", op,
			"attempt", attempt+1,
			"max_retries", opts.MaxRetries,
			"delay", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			var zero T
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	log.Errorw("hikvision call failed", "op", op, "error", err)
	var zero T
	return zero, err
}

// Do is Retry for calls without a result.
func Do(ctx context.Context, opts RetryOptions, log *zap.SugaredLogger, op string, fn func(context.Context) error) error {
	_, err := Retry(ctx, opts, log, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
