package client

import (
	"github.com/ValentinKolb/aKV/lib/deferred"
	"github.com/ValentinKolb/aKV/lib/store"
)

// --------------------------------------------------------------------------
// Non-coalesced operations
// --------------------------------------------------------------------------

// Put stores a value in a cell. Puts are sent right away, their order relative to
// other operations on the same cell is not guaranteed.
func (c *Client) Put(req PutRequest) *deferred.Deferred[struct{}] {
	s, key, err := c.prepare(req.Cell)
	if err != nil {
		return deferred.FromError[struct{}](err)
	}
	c.metrics.puts.Inc()
	return deferred.Go(func() (struct{}, error) {
		return struct{}{}, s.Set(key, req.Value)
	})
}

// Get reads the value of a cell.
func (c *Client) Get(cell Cell) *deferred.Deferred[GetResult] {
	s, key, err := c.prepare(cell)
	if err != nil {
		return deferred.FromError[GetResult](err)
	}
	c.metrics.gets.Inc()
	return deferred.Go(func() (GetResult, error) {
		value, found, err := s.Get(key)
		return GetResult{Value: value, Found: found}, err
	})
}

// GetCounter reads the value of a counter cell, a missing cell reads as zero.
// Buffered increments that were not flushed yet are not included.
func (c *Client) GetCounter(cell Cell) *deferred.Deferred[int64] {
	s, key, err := c.prepare(cell)
	if err != nil {
		return deferred.FromError[int64](err)
	}
	c.metrics.gets.Inc()
	return deferred.Go(func() (int64, error) {
		value, _, err := s.Get(key)
		if err != nil {
			return 0, err
		}
		return store.DecodeCounter(value)
	})
}

// Delete removes a cell. Deleting a missing cell is not an error.
func (c *Client) Delete(cell Cell) *deferred.Deferred[struct{}] {
	s, key, err := c.prepare(cell)
	if err != nil {
		return deferred.FromError[struct{}](err)
	}
	c.metrics.deletes.Inc()
	return deferred.Go(func() (struct{}, error) {
		return struct{}{}, s.Delete(key)
	})
}

// AtomicCreate stores the value only if the cell does not exist yet. The handle
// completes with true if the value was stored and false if the cell already had one.
func (c *Client) AtomicCreate(req PutRequest) *deferred.Deferred[bool] {
	s, key, err := c.prepare(req.Cell)
	if err != nil {
		return deferred.FromError[bool](err)
	}
	c.metrics.atomicCreates.Inc()
	return deferred.Go(func() (bool, error) {
		return s.SetIfUnset(key, req.Value)
	})
}

// CompareAndSet replaces the value of the cell with req.Value if its current value
// equals expected. An empty expected value means the cell must not exist, which makes
// the call equivalent to AtomicCreate. The handle completes with true if the value
// was replaced.
func (c *Client) CompareAndSet(req PutRequest, expected []byte) *deferred.Deferred[bool] {
	s, key, err := c.prepare(req.Cell)
	if err != nil {
		return deferred.FromError[bool](err)
	}
	c.metrics.compareAndSets.Inc()
	return deferred.Go(func() (bool, error) {
		return s.CompareAndSet(key, expected, req.Value)
	})
}

// Append appends req.Value to the value of the cell, a missing cell is created.
// Appends are never buffered.
func (c *Client) Append(req PutRequest) *deferred.Deferred[struct{}] {
	s, key, err := c.prepare(req.Cell)
	if err != nil {
		return deferred.FromError[struct{}](err)
	}
	c.metrics.appends.Inc()
	return deferred.Go(func() (struct{}, error) {
		return struct{}{}, s.Append(key, req.Value)
	})
}

// prepare validates the cell and resolves its store and storage key.
func (c *Client) prepare(cell Cell) (store.IStore, string, error) {
	if err := cell.validate(); err != nil {
		return nil, "", err
	}
	if c.closed.Load() {
		return nil, "", ErrClientClosed
	}
	s, err := c.resolver.Resolve(cell.Table)
	if err != nil {
		return nil, "", err
	}
	return s, cell.key(), nil
}
