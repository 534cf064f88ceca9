package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	ctx := context.Background()
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(ctx, 50))
	require.NoError(t, c.AcquireMemory(ctx, 40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	timeout, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(timeout, 20), context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())
	require.NoError(t, c.AcquireMemory(ctx, 20))
	assert.Equal(t, int64(60), c.MemoryUsage())

	assert.ErrorIs(t, c.AcquireMemory(ctx, 101), ErrMemoryLimitExceeded)
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.AcquireMemory(context.Background(), 1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryUsage())
	require.NoError(t, c.AcquireIO(context.Background(), 1<<30))
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	ctx := context.Background()
	require.NoError(t, c.AcquireMemory(ctx, 10))
	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Zero(t, c.MemoryUsage())
	require.NoError(t, c.Acquire(ctx))
	assert.True(t, c.TryAcquire())
	c.Release()
	require.NoError(t, c.AcquireIO(ctx, 1<<20))
	assert.Equal(t, Config{}, c.Config())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxConcurrency: 2})
	ctx := context.Background()

	require.NoError(t, c.Acquire(ctx))
	require.NoError(t, c.Acquire(ctx))
	assert.False(t, c.TryAcquire())

	c.Release()
	assert.True(t, c.TryAcquire())
}

func TestController_IOLargerThanBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	// The first burst is free; the second must wait about one second.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.AcquireIO(ctx, 2<<20)
	assert.Error(t, err)

	require.NoError(t, NewController(Config{IOLimitBytesPerSec: 1 << 20}).AcquireIO(context.Background(), 1<<20))
}

func TestRateLimitedIO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	var out bytes.Buffer
	w := NewRateLimitedWriter(ctx, &out, c)
	_, err := io.Copy(w, NewRateLimitedReader(ctx, strings.NewReader("payload"), c))
	require.NoError(t, err)
	assert.Equal(t, "payload", out.String())
}
