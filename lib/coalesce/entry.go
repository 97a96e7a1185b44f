package coalesce

import (
	"math"
	"sync"

	"github.com/ValentinKolb/aKV/lib/deferred"
)

type mergeResult uint8

const (
	merged   mergeResult = iota // delta added, caller got a dependent handle
	overflow                    // delta rejected, entry unchanged
	detached                    // entry is draining, caller must use a fresh entry
)

// entry accumulates the pending delta of one counter.
type entry struct {
	id Identity

	mu       sync.Mutex
	delta    int64
	waiters  int
	detached bool
	result   *deferred.Deferred[int64] // broadcast handle, completed by the drain
}

func newEntry(id Identity) *entry {
	return &entry{id: id, result: deferred.New[int64]()}
}

// merge adds delta to the pending amount and returns a handle chained onto the
// broadcast handle of the entry.
func (e *entry) merge(delta int64) (*deferred.Deferred[int64], mergeResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.detached {
		return nil, detached
	}
	if !canAdd(e.delta, delta) {
		return nil, overflow
	}
	e.delta += delta
	e.waiters++

	d := deferred.New[int64]()
	e.result.Chain(d)
	return d, merged
}

// detach marks the entry as draining and returns a snapshot of its state.
// ok is false if the entry was already detached.
func (e *entry) detach() (snap drainSnapshot, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.detached {
		return drainSnapshot{}, false
	}
	e.detached = true
	return drainSnapshot{id: e.id, delta: e.delta, waiters: e.waiters, result: e.result}, true
}

// drainSnapshot is the immutable state of a detached entry.
type drainSnapshot struct {
	id      Identity
	delta   int64
	waiters int
	result  *deferred.Deferred[int64]
}

// canAdd reports whether a+b fits into an int64.
func canAdd(a, b int64) bool {
	if b > 0 {
		return a <= math.MaxInt64-b
	}
	return a >= math.MinInt64-b
}
