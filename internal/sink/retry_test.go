package sink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRetrier(maxAttempts int, base time.Duration) (*Retrier, *[]time.Duration) {
	r := NewRetrier(maxAttempts, base)
	slept := &[]time.Duration{}
	r.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return r, slept
}

func TestBackoff_Exponential(t *testing.T) {
	r := NewRetrier(5, time.Second)
	require.Equal(t, time.Second, r.Backoff(0))
	require.Equal(t, 2*time.Second, r.Backoff(1))
	require.Equal(t, 4*time.Second, r.Backoff(2))
	require.Equal(t, 8*time.Second, r.Backoff(3))
}

func TestRun_SucceedsFirstAttempt(t *testing.T) {
	r, slept := newTestRetrier(3, time.Second)

	calls := 0
	err := r.Run(context.Background(), 1, func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Empty(t, *slept)
	require.Equal(t, StateSucceeded, r.State())
}

func TestRun_RetriesThenSucceeds(t *testing.T) {
	r, slept := newTestRetrier(3, time.Second)

	calls := 0
	err := r.Run(context.Background(), 1, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
	require.Equal(t, StateSucceeded, r.State())
}

func TestRun_ExhaustsAttempts(t *testing.T) {
	r, slept := newTestRetrier(3, time.Second)

	calls := 0
	err := r.Run(context.Background(), 1, func(context.Context) error {
		calls++
		return errors.New("store unavailable")
	})

	require.Error(t, err)
	require.Contains(t, err.Error(), "all 3 attempts failed")
	require.Equal(t, 3, calls)
	// no sleep after the final attempt
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
	require.Equal(t, StateExhausted, r.State())
}

func TestRun_AttemptShieldedFromCancellation(t *testing.T) {
	r, slept := newTestRetrier(3, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	err := r.Run(ctx, 1, func(attemptCtx context.Context) error {
		// shutdown arrives mid-attempt; the attempt's context stays live
		cancel()
		return attemptCtx.Err()
	})

	require.NoError(t, err)
	require.Empty(t, *slept)
	require.Equal(t, StateSucceeded, r.State())
}

func TestRun_CancelledDuringBackoff(t *testing.T) {
	r := NewRetrier(3, time.Second)
	r.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	calls := 0
	err := r.Run(context.Background(), 1, func(context.Context) error {
		calls++
		return errors.New("transient")
	})

	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
	require.Equal(t, StateExhausted, r.State())
}

func TestState_String(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "attempting", StateAttempting.String())
	require.Equal(t, "succeeded", StateSucceeded.String())
	require.Equal(t, "exhausted", StateExhausted.String())
}
