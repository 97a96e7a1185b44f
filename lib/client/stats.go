package client

import (
	"io"

	"github.com/ValentinKolb/aKV/lib/coalesce"
	"github.com/VictoriaMetrics/metrics"
)

// Stats is a snapshot of the client counters.
type Stats struct {
	AtomicIncrements   uint64 // physical increments requested by callers, overflow fallbacks included
	BufferedIncrements uint64 // increments accepted by BufferIncrement
	BufferDrains       uint64 // physical increments issued for drained buffer entries
	CoalescedWaiters   uint64 // buffered increments answered by those drains
	Flushes            uint64 // flush passes, scheduled and explicit
	BufferCreations    uint64 // increment buffers created, lazily on first use or by a resize
	Puts               uint64
	Gets               uint64
	Deletes            uint64
	AtomicCreates      uint64
	CompareAndSets     uint64
	Appends            uint64

	SchedulerPasses   uint64
	SchedulerFailures uint64

	// Buffer holds the counters of the current increment buffer, zero before first use.
	Buffer coalesce.Stats
}

// clientMetrics groups the metrics of one client in its own set, so several clients
// can live in one process.
type clientMetrics struct {
	set *metrics.Set

	atomicIncrements   *metrics.Counter
	bufferedIncrements *metrics.Counter
	bufferDrains       *metrics.Counter
	coalescedWaiters   *metrics.Counter
	flushes            *metrics.Counter
	bufferCreations    *metrics.Counter
	puts               *metrics.Counter
	gets               *metrics.Counter
	deletes            *metrics.Counter
	atomicCreates      *metrics.Counter
	compareAndSets     *metrics.Counter
	appends            *metrics.Counter

	waitersPerDrain *metrics.Histogram
}

func newClientMetrics(c *Client) *clientMetrics {
	set := metrics.NewSet()
	m := &clientMetrics{
		set:                set,
		atomicIncrements:   set.NewCounter(`akv_client_increments_total{mode="atomic"}`),
		bufferedIncrements: set.NewCounter(`akv_client_increments_total{mode="buffered"}`),
		bufferDrains:       set.NewCounter(`akv_client_buffer_drains_total`),
		coalescedWaiters:   set.NewCounter(`akv_client_coalesced_waiters_total`),
		flushes:            set.NewCounter(`akv_client_flushes_total`),
		bufferCreations:    set.NewCounter(`akv_client_buffer_creations_total`),
		puts:               set.NewCounter(`akv_client_requests_total{op="put"}`),
		gets:               set.NewCounter(`akv_client_requests_total{op="get"}`),
		deletes:            set.NewCounter(`akv_client_requests_total{op="delete"}`),
		atomicCreates:      set.NewCounter(`akv_client_requests_total{op="atomic_create"}`),
		compareAndSets:     set.NewCounter(`akv_client_requests_total{op="compare_and_set"}`),
		appends:            set.NewCounter(`akv_client_requests_total{op="append"}`),
		waitersPerDrain:    set.NewHistogram(`akv_client_waiters_per_drain`),
	}
	set.NewGauge(`akv_client_buffer_entries`, func() float64 {
		return float64(c.bufferStats().Size)
	})
	set.NewGauge(`akv_client_buffer_inflight_drains`, func() float64 {
		return float64(c.bufferStats().Inflight)
	})
	set.NewGauge(`akv_client_buffer_capacity`, func() float64 {
		return float64(c.IncrementBufferSize())
	})
	set.NewGauge(`akv_client_flush_interval_seconds`, func() float64 {
		return c.FlushInterval().Seconds()
	})
	return m
}

// recordDrain accounts one physical increment answering waiters buffered increments.
func (m *clientMetrics) recordDrain(waiters int) {
	m.bufferDrains.Inc()
	m.coalescedWaiters.Add(waiters)
	m.waitersPerDrain.Update(float64(waiters))
}

// Stats returns a snapshot of the client counters.
func (c *Client) Stats() Stats {
	return Stats{
		AtomicIncrements:   c.metrics.atomicIncrements.Get(),
		BufferedIncrements: c.metrics.bufferedIncrements.Get(),
		BufferDrains:       c.metrics.bufferDrains.Get(),
		CoalescedWaiters:   c.metrics.coalescedWaiters.Get(),
		Flushes:            c.metrics.flushes.Get(),
		BufferCreations:    c.metrics.bufferCreations.Get(),
		Puts:               c.metrics.puts.Get(),
		Gets:               c.metrics.gets.Get(),
		Deletes:            c.metrics.deletes.Get(),
		AtomicCreates:      c.metrics.atomicCreates.Get(),
		CompareAndSets:     c.metrics.compareAndSets.Get(),
		Appends:            c.metrics.appends.Get(),
		SchedulerPasses:    c.scheduler.Passes(),
		SchedulerFailures:  c.scheduler.Failures(),
		Buffer:             c.bufferStats(),
	}
}

// WriteMetrics writes the client metrics in Prometheus text format to w.
func (c *Client) WriteMetrics(w io.Writer) {
	c.metrics.set.WritePrometheus(w)
}

func (c *Client) bufferStats() coalesce.Stats {
	if buf := c.buffer.Load(); buf != nil {
		return buf.Stats()
	}
	return coalesce.Stats{Capacity: c.IncrementBufferSize()}
}
