package coalesce

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/aKV/lib/deferred"
)

// fakeBackend applies drained increments to in-memory counters.
type fakeBackend struct {
	mu       sync.Mutex
	counters map[string]int64
	drains   []drainCall
	fail     error
}

type drainCall struct {
	id      Identity
	delta   int64
	waiters int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{counters: make(map[string]int64)}
}

func (b *fakeBackend) drain(id Identity, delta int64, waiters int) *deferred.Deferred[int64] {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drains = append(b.drains, drainCall{id: id, delta: delta, waiters: waiters})
	if b.fail != nil {
		return deferred.FromError[int64](b.fail)
	}
	b.counters[id.Key()] += delta
	return deferred.FromResult(b.counters[id.Key()])
}

func (b *fakeBackend) value(id Identity) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counters[id.Key()]
}

func (b *fakeBackend) drainCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.drains)
}

func counter(row string) Identity {
	return NewIdentity([]byte("t"), []byte(row), []byte("f"), []byte("q"))
}

func join[T any](t *testing.T, d *deferred.Deferred[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := d.Join(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("handle did not complete in time")
	}
	return v, err
}

// TestBufferMergesIntoOneDrain tests that merged deltas are applied by a single increment
func TestBufferMergesIntoOneDrain(t *testing.T) {
	backend := newFakeBackend()
	c := NewCache(16, backend.drain)
	id := counter("a")

	var handles []*deferred.Deferred[int64]
	for _, delta := range []int64{1, 2, 3, -1} {
		d, err := c.Buffer(id, delta)
		if err != nil {
			t.Fatalf("Buffer() error = %v", err)
		}
		handles = append(handles, d)
	}
	if backend.drainCount() != 0 {
		t.Fatalf("drained before flush")
	}

	n, err := join(t, c.Flush())
	if err != nil || n != 1 {
		t.Fatalf("Flush() = (%d, %v), want (1, nil)", n, err)
	}
	if backend.drainCount() != 1 || backend.drains[0].delta != 5 || backend.drains[0].waiters != 4 {
		t.Fatalf("drains = %+v, want one drain of 5 for 4 waiters", backend.drains)
	}
	for i, h := range handles {
		if v, err := join(t, h); err != nil || v != 5 {
			t.Errorf("waiter %d = (%d, %v), want (5, nil)", i, v, err)
		}
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after flush, want 0", c.Len())
	}
}

// TestZeroNetDeltaStillDrains tests that a net delta of zero still reports the value to waiters
func TestZeroNetDeltaStillDrains(t *testing.T) {
	backend := newFakeBackend()
	backend.counters[counter("z").Key()] = 10
	c := NewCache(4, backend.drain)

	a, _ := c.Buffer(counter("z"), 3)
	b, _ := c.Buffer(counter("z"), -3)
	join(t, c.Flush())

	for _, h := range []*deferred.Deferred[int64]{a, b} {
		if v, err := join(t, h); err != nil || v != 10 {
			t.Errorf("waiter = (%d, %v), want (10, nil)", v, err)
		}
	}
}

// TestEvictionDrainsVictim tests that inserting past capacity drains the least recently used entry
func TestEvictionDrainsVictim(t *testing.T) {
	backend := newFakeBackend()
	c := NewCache(2, backend.drain)

	first, _ := c.Buffer(counter("a"), 1)
	c.Buffer(counter("b"), 1)
	c.Buffer(counter("a"), 1) // a becomes most recently used
	c.Buffer(counter("c"), 1) // evicts b

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if backend.drainCount() != 1 || !backend.drains[0].id.Equal(counter("b")) {
		t.Fatalf("drains = %+v, want exactly the drain of b", backend.drains)
	}
	if _, _, ok := first.Poll(); ok {
		t.Errorf("waiter of a completed although a was not drained")
	}
	if s := c.Stats(); s.Evictions != 1 || s.Hits != 1 || s.Misses != 3 {
		t.Errorf("Stats() = %+v, want 1 eviction, 1 hit, 3 misses", s)
	}

	join(t, c.Flush())
	if v, err := join(t, first); err != nil || v != 2 {
		t.Errorf("waiter of a = (%d, %v), want (2, nil)", v, err)
	}
}

// TestOverflowRejected tests that a merge overflowing int64 leaves the entry untouched
func TestOverflowRejected(t *testing.T) {
	tests := []struct {
		name   string
		first  int64
		second int64
	}{
		{name: "positive", first: math.MaxInt64, second: 1},
		{name: "negative", first: math.MinInt64, second: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			c := NewCache(4, backend.drain)
			if _, err := c.Buffer(counter("o"), tt.first); err != nil {
				t.Fatalf("first Buffer() error = %v", err)
			}
			if _, err := c.Buffer(counter("o"), tt.second); !errors.Is(err, ErrOverflow) {
				t.Fatalf("second Buffer() error = %v, want %v", err, ErrOverflow)
			}
			join(t, c.Flush())
			if got := backend.value(counter("o")); got != tt.first {
				t.Errorf("drained value = %d, want %d", got, tt.first)
			}
		})
	}
}

// TestCloseRejectsAndDrains tests that Close drains live entries and rejects further merges
func TestCloseRejectsAndDrains(t *testing.T) {
	backend := newFakeBackend()
	c := NewCache(4, backend.drain)
	d, _ := c.Buffer(counter("a"), 7)

	if n, err := join(t, c.Close()); err != nil || n != 1 {
		t.Fatalf("Close() = (%d, %v), want (1, nil)", n, err)
	}
	if v, err := join(t, d); err != nil || v != 7 {
		t.Errorf("waiter = (%d, %v), want (7, nil)", v, err)
	}
	if _, err := c.Buffer(counter("a"), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Buffer() after Close error = %v, want %v", err, ErrClosed)
	}
	if !c.Closed() {
		t.Errorf("Closed() = false")
	}
}

// TestCloseWaitsForInflightDrains tests that Close completes only after earlier drains settled
func TestCloseWaitsForInflightDrains(t *testing.T) {
	var pending []*deferred.Deferred[int64]
	c := NewCache(4, func(Identity, int64, int) *deferred.Deferred[int64] {
		d := deferred.New[int64]()
		pending = append(pending, d)
		return d
	})

	c.Buffer(counter("a"), 1)
	c.Flush()
	c.Buffer(counter("b"), 2)

	closed := c.Close()
	if closed != c.Close() {
		t.Errorf("Close() returned a different handle on the second call")
	}
	if len(pending) != 2 {
		t.Fatalf("started drains = %d, want 2", len(pending))
	}

	pending[1].Callback(2)
	if _, _, ok := closed.Poll(); ok {
		t.Fatalf("Close() completed while a flushed drain was in flight")
	}
	pending[0].Callback(1)

	if n, err := join(t, closed); err != nil || n != 1 {
		t.Errorf("Close() = (%d, %v), want (1, nil)", n, err)
	}
	if s := c.Stats(); s.Inflight != 0 || s.Flushed != 2 {
		t.Errorf("Stats() = %+v, want 0 in flight and 2 flushed", s)
	}
}

// TestDrainFailureReachesEveryWaiter tests that a failed drain fails all waiters with the same error
func TestDrainFailureReachesEveryWaiter(t *testing.T) {
	backend := newFakeBackend()
	backend.fail = errors.New("region unavailable")
	c := NewCache(4, backend.drain)

	a, _ := c.Buffer(counter("x"), 1)
	b, _ := c.Buffer(counter("x"), 2)
	if _, err := join(t, c.Flush()); !errors.Is(err, backend.fail) {
		t.Errorf("Flush() error = %v, want %v", err, backend.fail)
	}
	for _, h := range []*deferred.Deferred[int64]{a, b} {
		if _, err := join(t, h); err != backend.fail {
			t.Errorf("waiter error = %v, want %v", err, backend.fail)
		}
	}
}

// TestZeroCapacity tests that a cache without capacity rejects merges
func TestZeroCapacity(t *testing.T) {
	c := NewCache(0, newFakeBackend().drain)
	if _, err := c.Buffer(counter("a"), 1); !errors.Is(err, ErrDisabled) {
		t.Errorf("Buffer() error = %v, want %v", err, ErrDisabled)
	}
}

// TestConcurrentBufferConservesDeltas tests that concurrent merges and flushes neither lose nor duplicate deltas
func TestConcurrentBufferConservesDeltas(t *testing.T) {
	const (
		workers    = 16
		perWorker  = 500
		identities = 8
	)
	backend := newFakeBackend()
	c := NewCache(4, backend.drain) // smaller than identities to force evictions

	stop := make(chan struct{})
	flusherDone := make(chan struct{})
	go func() {
		defer close(flusherDone)
		for {
			select {
			case <-stop:
				return
			default:
				c.Flush()
			}
		}
	}()

	var wg sync.WaitGroup
	handles := make([][]*deferred.Deferred[int64], workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := counter(string(rune('a' + (w+i)%identities)))
				d, err := c.Buffer(id, 1)
				if err != nil {
					t.Errorf("Buffer() error = %v", err)
					return
				}
				handles[w] = append(handles[w], d)
			}
		}(w)
	}
	wg.Wait()
	close(stop)
	<-flusherDone
	join(t, c.Close())

	var total int64
	for i := 0; i < identities; i++ {
		total += backend.value(counter(string(rune('a' + i))))
	}
	if total != workers*perWorker {
		t.Errorf("applied total = %d, want %d", total, workers*perWorker)
	}
	for w := range handles {
		for _, h := range handles[w] {
			if _, err := join(t, h); err != nil {
				t.Fatalf("waiter error = %v", err)
			}
		}
	}
}
