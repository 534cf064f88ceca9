package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned for a reservation larger than the
// configured memory limit.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits. Zero values mean unlimited, except
// MaxConcurrency which defaults to 1.
type Config struct {
	// MemoryLimitBytes caps the bytes reserved through AcquireMemory.
	MemoryLimitBytes int64

	// MaxConcurrency caps the worker slots handed out by Acquire.
	MaxConcurrency int64

	// IOLimitBytesPerSec caps the throughput granted by AcquireIO.
	IOLimitBytesPerSec int64
}

// Controller hands out memory, worker slots and I/O bandwidth.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted
	memUsed atomic.Int64

	workers *semaphore.Weighted

	io *rate.Limiter
}

// NewController returns a controller enforcing cfg.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxConcurrency),
	}
	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.io = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(min(cfg.IOLimitBytesPerSec, 1<<30)))
	}
	return c
}

// Config returns the limits c enforces.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireMemory reserves n bytes, blocking until they are available or ctx
// is done.
func (c *Controller) AcquireMemory(ctx context.Context, n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	if c.memSem != nil {
		if n > c.cfg.MemoryLimitBytes {
			return fmt.Errorf("%w: %d bytes requested, limit %d", ErrMemoryLimitExceeded, n, c.cfg.MemoryLimitBytes)
		}
		if err := c.memSem.Acquire(ctx, n); err != nil {
			return err
		}
	}
	c.memUsed.Add(n)
	return nil
}

// TryAcquireMemory reserves n bytes if they are available now.
func (c *Controller) TryAcquireMemory(n int64) bool {
	if c == nil || n <= 0 {
		return true
	}
	if c.memSem != nil && !c.memSem.TryAcquire(n) {
		return false
	}
	c.memUsed.Add(n)
	return true
}

// ReleaseMemory returns n reserved bytes.
func (c *Controller) ReleaseMemory(n int64) {
	if c == nil || n <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(n)
	}
	c.memUsed.Add(-n)
}

// MemoryUsage returns the bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// Acquire takes a worker slot, blocking until one is free or ctx is done.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workers.Acquire(ctx, 1)
}

// TryAcquire takes a worker slot if one is free now.
func (c *Controller) TryAcquire() bool {
	if c == nil {
		return true
	}
	return c.workers.TryAcquire(1)
}

// Release returns a worker slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	c.workers.Release(1)
}

// AcquireIO waits until n bytes of I/O are allowed. Requests larger than the
// limiter's burst are granted in burst-sized steps.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.io == nil {
		return nil
	}
	burst := c.io.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := c.io.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}
