package lstore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

type storeImpl struct {
	data *xsync.MapOf[string, []byte]
}

// NewLocalStore creates a new local store instance.
// This store implementation is not distributed and only works on a single node.
func NewLocalStore() store.IPersistentStore {
	return &storeImpl{
		data: xsync.NewMapOf[string, []byte](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key string, value []byte) error {
	s.data.Store(key, bytes.Clone(value))
	return nil
}

func (s *storeImpl) Delete(key string) error {
	s.data.Delete(key)
	return nil
}

func (s *storeImpl) Get(key string) ([]byte, bool, error) {
	val, ok := s.data.Load(key)
	return bytes.Clone(val), ok, nil
}

func (s *storeImpl) Has(key string) (bool, error) {
	_, ok := s.data.Load(key)
	return ok, nil
}

func (s *storeImpl) SetIfUnset(key string, value []byte) (bool, error) {
	_, loaded := s.data.LoadOrStore(key, bytes.Clone(value))
	return !loaded, nil
}

func (s *storeImpl) CompareAndSet(key string, expected, value []byte) (bool, error) {
	var swapped bool
	s.data.Compute(key, func(old []byte, loaded bool) ([]byte, bool) {
		if len(expected) == 0 {
			swapped = !loaded
		} else {
			swapped = loaded && bytes.Equal(old, expected)
		}
		if !swapped {
			return old, !loaded
		}
		return bytes.Clone(value), false
	})
	return swapped, nil
}

// Append never modifies the stored slice in place, readers may still hold it.
func (s *storeImpl) Append(key string, value []byte) error {
	s.data.Compute(key, func(old []byte, _ bool) ([]byte, bool) {
		joined := make([]byte, 0, len(old)+len(value))
		return append(append(joined, old...), value...), false
	})
	return nil
}

// Increment is atomic per key: the read-modify-write runs inside the map's bucket lock.
// The store lives in memory, so the durable flag is ignored.
func (s *storeImpl) Increment(key string, delta int64, _ bool) (int64, error) {
	var (
		result int64
		opErr  error
	)
	s.data.Compute(key, func(old []byte, loaded bool) ([]byte, bool) {
		cur, err := store.DecodeCounter(old)
		if err == nil {
			result, err = store.AddCounter(cur, delta)
		}
		if err != nil {
			opErr = err
			// keep the old value, or leave the key absent
			return old, !loaded
		}
		return store.EncodeCounter(result), false
	})
	if opErr != nil {
		return 0, opErr
	}
	return result, nil
}

func (s *storeImpl) Close() error {
	s.data.Clear()
	return nil
}

// --------------------------------------------------------------------------
// Snapshots
// --------------------------------------------------------------------------

// Save writes a fuzzy snapshot: concurrent writes may or may not be included.
func (s *storeImpl) Save(w io.Writer) error {
	snapshot := make(map[string][]byte, s.data.Size())
	s.data.Range(func(key string, value []byte) bool {
		snapshot[key] = value
		return true
	})
	if err := gob.NewEncoder(w).Encode(snapshot); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (s *storeImpl) Load(r io.Reader) error {
	var snapshot map[string][]byte
	if err := gob.NewDecoder(r).Decode(&snapshot); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	s.data.Clear()
	for key, value := range snapshot {
		s.data.Store(key, value)
	}
	return nil
}
