// Package remote bounds calls against the backing store and turns their
// failures into domain.RemoteError values.
package remote

import (
	"SmartExpire/domain"
	"context"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Call runs fn with a deadline of timeout (none when timeout <= 0). A failure
// comes back as *domain.RemoteError wrapping the cause.
func Call(ctx context.Context, timeout time.Duration, op string, fn func(ctx context.Context) error) error {
	_, err := Fetch(ctx, timeout, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Fetch is Call for operations that return a value.
func Fetch[T any](ctx context.Context, timeout time.Duration, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, domain.NewRemoteError(op, err)
	}
	return v, nil
}
