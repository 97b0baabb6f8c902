package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	release, err := l.Acquire(ctx, "overview:spot", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "overview:spot", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)

	// Different key is independent
	releaseOther, err := l.Acquire(ctx, "overview:lodging", time.Minute)
	require.NoError(t, err)
	releaseOther()

	release()
	release() // idempotent

	release, err = l.Acquire(ctx, "overview:spot", time.Minute)
	require.NoError(t, err)
	release()
}

func TestMemoryLocker_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLocker()
	l.nowFn = func() time.Time { return now }

	staleRelease, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	release, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err, "expired lock can be taken over")

	// The first holder releasing late must not free the new holder's lock
	staleRelease()
	_, err = l.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)
	release()
}

func TestMemoryLocker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryLocker().Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
