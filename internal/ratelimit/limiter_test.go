package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitWithinBurstDoesNotBlock(t *testing.T) {
	l := New("TMDB", 4)

	start := time.Now()
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 200*time.Millisecond)
	assert.Equal(t, "TMDB", l.Name())
}

func TestWaitHonorsCancelledContext(t *testing.T) {
	l := NewWithBurst("TMDB", 1, 1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for TMDB")
}

func TestNilLimiterNeverBlocks(t *testing.T) {
	var l *Limiter

	require.NoError(t, l.Wait(context.Background()))
	assert.Equal(t, "", l.Name())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
}

func TestNewWithBurstClampsBurst(t *testing.T) {
	l := NewWithBurst("tiny", 10, 0)
	require.NoError(t, l.Wait(context.Background()))
}
