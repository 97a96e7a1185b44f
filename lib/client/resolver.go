package client

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ValentinKolb/aKV/lib/store"
)

// ErrUnknownTable is returned by a resolver that has no store for a table.
var ErrUnknownTable = errors.New("client: unknown table")

// Resolver maps a table to the store holding its cells.
type Resolver interface {
	// Resolve returns the store of the table. It must not block on network I/O.
	Resolve(table []byte) (store.IStore, error)
	// Close closes every store handed out by Resolve.
	Close() error
}

// StaticResolver is a Resolver backed by a fixed table -> store mapping with an
// optional fallback for tables that were not registered.
type StaticResolver struct {
	mu       sync.RWMutex
	tables   map[string]store.IStore
	fallback store.IStore
}

// NewStaticResolver creates a resolver that answers unknown tables with fallback.
// A nil fallback makes unknown tables fail with ErrUnknownTable.
func NewStaticResolver(fallback store.IStore) *StaticResolver {
	return &StaticResolver{
		tables:   make(map[string]store.IStore),
		fallback: fallback,
	}
}

// Register maps table to s, replacing a previous mapping.
func (r *StaticResolver) Register(table string, s store.IStore) *StaticResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[table] = s
	return r
}

// --------------------------------------------------------------------------
// Interface Methods (docu see Resolver)
// --------------------------------------------------------------------------

func (r *StaticResolver) Resolve(table []byte) (store.IStore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.tables[string(table)]; ok {
		return s, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
}

func (r *StaticResolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// a store may be registered for several tables
	seen := make(map[store.IStore]struct{}, len(r.tables)+1)
	var errs []error
	closeOnce := func(s store.IStore) {
		if s == nil {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range r.tables {
		closeOnce(s)
	}
	closeOnce(r.fallback)
	return errors.Join(errs...)
}
