package utils

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times, sleeping delay, 2*delay, ... between
// tries. It stops early when fn succeeds, the context is done, or retryable
// reports the error as permanent.
func Retry(ctx context.Context, attempts int, delay time.Duration, retryable func(error) bool, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(i+1) * delay):
		}
	}
	return err
}
