package coalesce

import (
	"errors"
	"sync"

	"github.com/ValentinKolb/aKV/lib/deferred"
	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("coalesce")

var (
	// ErrClosed is returned by Buffer once the cache has been closed (e.g. replaced by a resize).
	ErrClosed = errors.New("coalesce: buffer closed")
	// ErrOverflow is returned by Buffer if the delta would overflow the pending amount.
	ErrOverflow = errors.New("coalesce: pending delta would overflow")
	// ErrDisabled is returned by Buffer if the cache was created with a capacity of zero.
	ErrDisabled = errors.New("coalesce: buffer has no capacity")
)

// DrainFunc issues the physical increment for a drained entry. It must not block,
// waiters is the number of buffered increments that were merged into delta.
type DrainFunc func(id Identity, delta int64, waiters int) *deferred.Deferred[int64]

// Stats is a snapshot of the cache counters.
type Stats struct {
	Hits      uint64 // merges into an existing entry
	Misses    uint64 // merges that created an entry
	Overflows uint64 // merges rejected with ErrOverflow
	Evictions uint64 // entries drained to make room
	Flushed   uint64 // entries drained by Flush or Close
	Size      int    // live entries
	Inflight  int    // drains started and not yet settled
	Capacity  int
}

// Cache is a bounded write-back cache of pending counter increments.
type Cache struct {
	mu       sync.Mutex
	lru      *simplelru.LRU
	capacity int
	drain    DrainFunc
	closed   bool
	flushing bool            // set while purging, evictions are counted as flushed
	victims  []drainSnapshot // detached by the lru callback, drained after unlock
	stats    Stats

	inflight    int // drains started and not yet settled
	closeResult *deferred.Deferred[int]
	closeCount  int
	closeErrs   []error
}

// NewCache creates a cache holding at most capacity entries. A capacity <= 0 yields a
// cache that rejects every merge with ErrDisabled.
func NewCache(capacity int, drain DrainFunc) *Cache {
	if capacity < 0 {
		capacity = 0
	}
	c := &Cache{capacity: capacity, drain: drain}
	// simplelru only fails for a non positive size
	c.lru, _ = simplelru.NewLRU(max(capacity, 1), c.onEvict)
	return c
}

// onEvict is invoked by the lru with c.mu held. It only detaches the victim and queues
// it: the entry is unreachable right away, its drain is started by the caller after
// c.mu is released (see takeVictims and start) so no callback runs under the lock.
func (c *Cache) onEvict(_ interface{}, value interface{}) {
	snap, ok := value.(*entry).detach()
	if !ok {
		return
	}
	if c.flushing {
		c.stats.Flushed++
	} else {
		c.stats.Evictions++
	}
	c.victims = append(c.victims, snap)
}

// takeVictims must be called with c.mu held. The returned drains count as in flight.
func (c *Cache) takeVictims() []drainSnapshot {
	victims := c.victims
	c.victims = nil
	c.inflight += len(victims)
	return victims
}

// --------------------------------------------------------------------------
// Operations
// --------------------------------------------------------------------------

// Buffer merges delta into the entry of id, creating the entry if needed, and returns a
// handle that completes with the counter value after the drain of that entry.
func (c *Cache) Buffer(id Identity, delta int64) (*deferred.Deferred[int64], error) {
	key := id.Key()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.capacity == 0 {
		c.mu.Unlock()
		return nil, ErrDisabled
	}

	var (
		d   *deferred.Deferred[int64]
		err error
	)
	for retry := true; retry; {
		e, created := c.getOrCreate(key, id)

		var res mergeResult
		d, res = e.merge(delta)
		retry = false
		switch res {
		case merged:
			if created {
				c.stats.Misses++
			} else {
				c.stats.Hits++
			}
		case overflow:
			c.stats.Overflows++
			err = ErrOverflow
		case detached:
			c.lru.Remove(key)
			retry = true
		}
	}
	victims := c.takeVictims()
	c.mu.Unlock()

	c.start(victims, false)
	return d, err
}

// getOrCreate must be called with c.mu held. Adding a new entry may evict the least
// recently used one into c.victims.
func (c *Cache) getOrCreate(key string, id Identity) (*entry, bool) {
	if v, ok := c.lru.Get(key); ok {
		return v.(*entry), false
	}
	e := newEntry(id)
	c.lru.Add(key, e)
	return e, true
}

// Flush drains every live entry. The returned handle completes with the number of
// drained entries once every drained increment has settled.
func (c *Cache) Flush() *deferred.Deferred[int] {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return deferred.FromResult(0)
	}
	victims := c.purge()
	c.mu.Unlock()

	if len(victims) > 0 {
		log.Debugf("flushing %d buffered counters", len(victims))
	}
	pending := c.start(victims, false)

	out := deferred.New[int]()
	deferred.Group(pending...).AddCallback(func(_ []int64, err error) {
		if err != nil {
			out.Fail(err)
			return
		}
		out.Callback(len(pending))
	})
	return out
}

// Close drains every live entry and rejects every later Buffer call with ErrClosed.
// The returned handle completes once every drain this cache ever started has settled,
// with the number of entries drained by Close, or with the errors.Join of the
// failures among them. Later calls return the same handle.
func (c *Cache) Close() *deferred.Deferred[int] {
	c.mu.Lock()
	if c.closed {
		d := c.closeResult
		c.mu.Unlock()
		return d
	}
	c.closed = true
	c.closeResult = deferred.New[int]()
	victims := c.purge()
	c.closeCount = len(victims)
	d := c.closeResult
	c.mu.Unlock()

	if len(victims) > 0 {
		log.Debugf("draining %d buffered counters on close", len(victims))
	}
	c.start(victims, true)
	c.finishClose()
	return d
}

// purge detaches every live entry, it must be called with c.mu held.
func (c *Cache) purge() []drainSnapshot {
	c.flushing = true
	c.lru.Purge()
	c.flushing = false
	return c.takeVictims()
}

// start issues the physical increments for the given snapshots and returns their
// broadcast handles.
func (c *Cache) start(victims []drainSnapshot, closing bool) []*deferred.Deferred[int64] {
	pending := make([]*deferred.Deferred[int64], 0, len(victims))
	for _, v := range victims {
		c.drain(v.id, v.delta, v.waiters).Chain(v.result)
		v.result.AddCallback(func(_ int64, err error) {
			c.settled(err, closing)
		})
		pending = append(pending, v.result)
	}
	return pending
}

// settled is called once per drain after its waiters have been notified.
func (c *Cache) settled(err error, closing bool) {
	c.mu.Lock()
	c.inflight--
	if closing && err != nil {
		c.closeErrs = append(c.closeErrs, err)
	}
	c.mu.Unlock()
	c.finishClose()
}

// finishClose completes the close handle once the cache is closed and idle.
func (c *Cache) finishClose() {
	c.mu.Lock()
	if !c.closed || c.inflight > 0 {
		c.mu.Unlock()
		return
	}
	d, n, err := c.closeResult, c.closeCount, errors.Join(c.closeErrs...)
	c.mu.Unlock()

	// only the first completion wins, concurrent callers are no-ops
	deferred.Settle(d, n, err)
}

// --------------------------------------------------------------------------
// Introspection
// --------------------------------------------------------------------------

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Capacity returns the maximum number of live entries.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Closed reports whether Close has been called.
func (c *Cache) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = c.lru.Len()
	s.Inflight = c.inflight
	s.Capacity = c.capacity
	return s
}
