package sink

import (
	"context"
	"fmt"
	"log"
	"time"
)

// State is the retry controller's position in its lifecycle, exposed so that
// exhaustion is observable independently of the returned error.
type State int

const (
	StateIdle State = iota
	StateAttempting
	StateSucceeded
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAttempting:
		return "attempting"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Retrier wraps sink attempts with bounded retry and exponential backoff. It
// treats every attempt error as transient: blind retry is safe because the
// sink converges no matter how many attempts partially applied.
type Retrier struct {
	MaxAttempts int
	BaseDelay   time.Duration

	state State
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetrier(maxAttempts int, baseDelay time.Duration) *Retrier {
	return &Retrier{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		sleep:       sleepContext,
	}
}

// Backoff returns the delay before the attempt after the given zero-based
// attempt index: BaseDelay * 2^attempt.
func (r *Retrier) Backoff(attempt int) time.Duration {
	return r.BaseDelay << attempt
}

func (r *Retrier) State() State {
	return r.state
}

// Run makes up to MaxAttempts attempts at fn, sleeping Backoff(i) between
// them. The backoff sleep aborts on context cancellation so shutdown never
// waits out a delay; the attempt itself runs on a context shielded from
// cancellation so an in-flight stage or merge statement always finishes.
func (r *Retrier) Run(ctx context.Context, batchID int64, fn func(context.Context) error) error {
	var lastErr error

	attemptCtx := context.WithoutCancel(ctx)
	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		r.state = StateAttempting
		err := fn(attemptCtx)
		if err == nil {
			r.state = StateSucceeded
			return nil
		}
		lastErr = err
		log.Printf("batch %d: attempt %d/%d failed: %v", batchID, attempt+1, r.MaxAttempts, err)

		if attempt == r.MaxAttempts-1 {
			break
		}
		if err := r.sleep(ctx, r.Backoff(attempt)); err != nil {
			r.state = StateExhausted
			return fmt.Errorf("retry aborted after attempt %d: %w", attempt+1, err)
		}
	}

	r.state = StateExhausted
	return fmt.Errorf("all %d attempts failed: %w", r.MaxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
