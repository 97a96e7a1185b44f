package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/aKV/lib/coalesce"
	"github.com/ValentinKolb/aKV/lib/deferred"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("client")

const (
	// DefaultFlushInterval is the maximum time an increment is buffered by default.
	DefaultFlushInterval = time.Second
	// DefaultIncrementBufferSize is the default number of counters kept in the buffer.
	DefaultIncrementBufferSize = 65535
)

var (
	// ErrNegativeInterval is returned for a negative flush interval.
	ErrNegativeInterval = errors.New("client: negative flush interval")
	// ErrNegativeBufferSize is returned for a negative increment buffer size.
	ErrNegativeBufferSize = errors.New("client: negative increment buffer size")
	// ErrClientClosed is returned by every operation after Shutdown.
	ErrClientClosed = errors.New("client: closed")
)

// Options configures a Client.
type Options struct {
	// FlushInterval is the maximum time a buffered increment waits before it is sent.
	// Zero disables buffering, BufferIncrement then behaves like AtomicIncrement.
	FlushInterval time.Duration
	// IncrementBufferSize is the maximum number of counters kept in the buffer.
	// Zero disables buffering.
	IncrementBufferSize int
}

// DefaultOptions returns the options used by the CLI if nothing else is configured.
func DefaultOptions() Options {
	return Options{
		FlushInterval:       DefaultFlushInterval,
		IncrementBufferSize: DefaultIncrementBufferSize,
	}
}

// Client issues asynchronous operations against the stores returned by its resolver.
// Increments can be buffered: increments of the same counter are merged in memory
// and sent as one physical increment, every caller still receives the counter value
// after its own increment was applied.
type Client struct {
	resolver Resolver

	flushInterval atomic.Int64 // time.Duration
	bufferSize    atomic.Int64

	// initMu serializes buffer creation, replacement and shutdown
	initMu    sync.Mutex
	buffer    atomic.Pointer[coalesce.Cache] // nil until the first buffered increment
	retiring  map[*coalesce.Cache]struct{}   // replaced buffers that are still draining
	scheduler *coalesce.Scheduler
	closed    atomic.Bool

	metrics *clientMetrics
}

// New creates a client. The resolver is closed by Shutdown.
func New(resolver Resolver, opts Options) (*Client, error) {
	if opts.FlushInterval < 0 {
		return nil, ErrNegativeInterval
	}
	if opts.IncrementBufferSize < 0 {
		return nil, ErrNegativeBufferSize
	}

	c := &Client{
		resolver: resolver,
		retiring: make(map[*coalesce.Cache]struct{}),
	}
	c.flushInterval.Store(int64(opts.FlushInterval))
	c.bufferSize.Store(int64(opts.IncrementBufferSize))
	c.scheduler = coalesce.NewScheduler(c.FlushInterval, c.flushBuffer)
	c.metrics = newClientMetrics(c)

	log.Debugf("created client (flush interval %s, increment buffer size %d)", opts.FlushInterval, opts.IncrementBufferSize)
	return c, nil
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// FlushInterval returns the maximum time increments are buffered. Zero means
// buffering is disabled.
func (c *Client) FlushInterval() time.Duration {
	return time.Duration(c.flushInterval.Load())
}

// SetFlushInterval changes the flush interval and returns the previous one.
// Buffered increments pick up the new interval with the next tick, so a change
// takes effect after at most one full previous interval. Zero disables buffering.
func (c *Client) SetFlushInterval(interval time.Duration) (time.Duration, error) {
	if interval < 0 {
		return c.FlushInterval(), ErrNegativeInterval
	}
	return time.Duration(c.flushInterval.Swap(int64(interval))), nil
}

// IncrementBufferSize returns the capacity of the increment buffer, not the number
// of buffered counters.
func (c *Client) IncrementBufferSize() int {
	return int(c.bufferSize.Load())
}

// SetIncrementBufferSize changes the capacity of the increment buffer and returns the
// previous capacity. An existing buffer cannot be resized: it is replaced by a new one
// and flushed.
func (c *Client) SetIncrementBufferSize(size int) (int, error) {
	if size < 0 {
		return c.IncrementBufferSize(), ErrNegativeBufferSize
	}

	c.initMu.Lock()
	prev := int(c.bufferSize.Swap(int64(size)))
	if prev == size {
		c.initMu.Unlock()
		return prev, nil
	}
	old := c.buffer.Load()
	if old == nil || c.closed.Load() {
		// created lazily with the new size, or drained by Shutdown
		c.initMu.Unlock()
		return prev, nil
	}
	c.makeIncrementBuffer()
	c.retiring[old] = struct{}{}
	c.initMu.Unlock()

	// callers still holding old get ErrClosed and retry on the new buffer
	old.Close().AddCallback(func(n int, err error) {
		c.initMu.Lock()
		delete(c.retiring, old)
		c.initMu.Unlock()
		if err != nil {
			log.Warningf("failed to drain replaced increment buffer: %v", err)
			return
		}
		log.Debugf("drained %d counters of the replaced increment buffer", n)
	})
	return prev, nil
}

// --------------------------------------------------------------------------
// Increments
// --------------------------------------------------------------------------

// AtomicIncrement sends the increment to the store right away. The handle completes
// with the counter value after the increment.
func (c *Client) AtomicIncrement(req IncrementRequest) *deferred.Deferred[int64] {
	if err := req.validate(); err != nil {
		return deferred.FromError[int64](err)
	}
	if c.closed.Load() {
		return deferred.FromError[int64](ErrClientClosed)
	}
	c.metrics.atomicIncrements.Inc()
	return c.increment(req.identity(), req.Amount, req.Durable)
}

// BufferIncrement buffers the increment for coalescing. It is held in memory for up to
// FlushInterval (or until the buffer runs out of room) and merged with the other
// increments of the same counter. The handle completes with the counter value after
// the merged increment, which is the same for every merged caller.
// If buffering is disabled, or the pending amount would overflow, the increment is
// sent right away.
func (c *Client) BufferIncrement(req IncrementRequest) *deferred.Deferred[int64] {
	if err := req.validate(); err != nil {
		return deferred.FromError[int64](err)
	}
	if c.FlushInterval() == 0 || c.IncrementBufferSize() == 0 {
		return c.AtomicIncrement(req)
	}

	id := req.identity()
	for {
		if c.closed.Load() {
			return deferred.FromError[int64](ErrClientClosed)
		}
		buf := c.buffer.Load()
		if buf == nil {
			if buf = c.setupIncrementCoalescing(); buf == nil {
				return deferred.FromError[int64](ErrClientClosed)
			}
		}

		d, err := buf.Buffer(id, req.Amount)
		switch {
		case err == nil:
			c.metrics.bufferedIncrements.Inc()
			return d
		case errors.Is(err, coalesce.ErrClosed):
			// lost a race with a resize (retry on the new buffer) or with Shutdown
			continue
		default:
			// overflow or a buffer created with zero capacity
			c.metrics.atomicIncrements.Inc()
			return c.increment(id, req.Amount, req.Durable)
		}
	}
}

// Flush drains the increment buffer. The handle completes with the number of drained
// counters once all of their increments have settled.
func (c *Client) Flush() *deferred.Deferred[int] {
	buf := c.buffer.Load()
	if buf == nil {
		return deferred.FromResult(0)
	}
	c.metrics.flushes.Inc()
	return buf.Flush()
}

// increment issues one physical increment.
func (c *Client) increment(id coalesce.Identity, delta int64, durable bool) *deferred.Deferred[int64] {
	s, err := c.resolver.Resolve(id.Table)
	if err != nil {
		return deferred.FromError[int64](err)
	}
	key := id.Key()
	return deferred.Go(func() (int64, error) {
		return s.Increment(key, delta, durable)
	})
}

// drainIncrement is the DrainFunc of the increment buffer.
func (c *Client) drainIncrement(id coalesce.Identity, delta int64, waiters int) *deferred.Deferred[int64] {
	c.metrics.recordDrain(waiters)
	return c.increment(id, delta, true)
}

// setupIncrementCoalescing creates the buffer and starts the flush scheduler on the
// first buffered increment. It returns nil if the client is closed.
func (c *Client) setupIncrementCoalescing() *coalesce.Cache {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	// another goroutine may have won the race
	if buf := c.buffer.Load(); buf != nil {
		return buf
	}
	if c.closed.Load() {
		return nil
	}
	buf := c.makeIncrementBuffer()
	c.scheduler.Start()
	return buf
}

// makeIncrementBuffer installs a new buffer with the current size, c.initMu must be held.
func (c *Client) makeIncrementBuffer() *coalesce.Cache {
	size := c.IncrementBufferSize()
	buf := coalesce.NewCache(size, c.drainIncrement)
	c.buffer.Store(buf)
	c.metrics.bufferCreations.Inc()
	log.Debugf("created increment buffer of %d entries", size)
	return buf
}

// flushBuffer is the scheduled flush pass.
func (c *Client) flushBuffer() {
	buf := c.buffer.Load()
	if buf == nil {
		return
	}
	c.metrics.flushes.Inc()
	buf.Flush().AddCallback(func(n int, err error) {
		if err != nil {
			log.Warningf("scheduled flush of %d counters failed: %v", n, err)
			return
		}
		if n > 0 {
			log.Debugf("flushed %d buffered counters", n)
		}
	})
}

// --------------------------------------------------------------------------
// Shutdown
// --------------------------------------------------------------------------

// Shutdown stops the flush scheduler, drains every buffered increment, waits until
// all drained increments settled and closes the resolver. Operations issued after
// Shutdown fail with ErrClientClosed. If ctx expires before the drains settled the
// resolver is closed anyway and the context error is returned.
func (c *Client) Shutdown(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}
	c.scheduler.Stop()

	// closed is set, so no buffer is created or replaced after this point
	c.initMu.Lock()
	buffers := make([]*coalesce.Cache, 0, len(c.retiring)+1)
	for buf := range c.retiring {
		buffers = append(buffers, buf)
	}
	if buf := c.buffer.Load(); buf != nil {
		buffers = append(buffers, buf)
	}
	c.initMu.Unlock()

	var errs []error
	drained := 0
	for _, buf := range buffers {
		n, err := buf.Close().Join(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to drain increment buffer: %w", err))
			continue
		}
		drained += n
	}
	log.Infof("shutdown drained %d buffered counters", drained)

	if err := c.resolver.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close stores: %w", err))
	}
	return errors.Join(errs...)
}
