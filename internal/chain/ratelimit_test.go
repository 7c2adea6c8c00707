package chain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/evmscan/internal/chain"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()
	rl := chain.NewRateLimiter(10, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("https://rpc.example.org/eth"), "request %d should fit in burst", i)
	}
	assert.False(t, rl.Allow("https://rpc.example.org/eth"), "burst exhausted")
	assert.False(t, rl.Allow("https://rpc.example.org/bsc"), "same host shares the bucket")

	// Other hosts are independent
	assert.True(t, rl.Allow("https://other.example.org/eth"))
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()
	rl := chain.NewRateLimiter(100, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, rl.Wait(ctx, "rpc"))

	start := time.Now()
	require.NoError(t, rl.Wait(ctx, "rpc"))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestRateLimiter_WaitCanceled(t *testing.T) {
	t.Parallel()
	rl := chain.NewRateLimiter(1, 1)
	require.NoError(t, rl.Wait(context.Background(), "rpc"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, rl.Wait(ctx, "rpc"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	t.Parallel()

	rl := chain.NewRateLimiter(0, 10)
	assert.Nil(t, rl)

	// A nil limiter is usable and never blocks.
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("rpc"))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, rl.Wait(ctx, "rpc"))
}

func TestDefaultRateLimiter(t *testing.T) {
	t.Parallel()
	rl := chain.DefaultRateLimiter()
	require.NotNil(t, rl)

	for i := 0; i < chain.DefaultRateBurst; i++ {
		assert.True(t, rl.Allow("rpc"))
	}
	assert.False(t, rl.Allow("rpc"))
}
