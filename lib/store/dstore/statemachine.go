package dstore

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/ValentinKolb/aKV/lib/store/dstore/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

// --------------------------------------------------------------------------
// State Machine Implementation
// --------------------------------------------------------------------------

// KVStateMachine is a state machine implementation for Dragonboat RAFT
type KVStateMachine struct {
	replicaID uint64
	shardID   uint64
	data      store.IPersistentStore // the actual data storage
}

// CreateStateMachineFactory returns a function that can be used by dragonboat to create a new state machine for a node host.
// The factory pattern is used to enable the caller to pass an interchangeable data layer.
func CreateStateMachineFactory(storeFactory store.StoreFactory) sm.CreateConcurrentStateMachineFunc {
	return func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
		return &KVStateMachine{
			replicaID: replicaID,
			shardID:   shardID,
			data:      storeFactory(),
		}
	}
}

// Lookup handles read-only queries.
func (fsm *KVStateMachine) Lookup(itf interface{}) (interface{}, error) {
	q, ok := itf.(internal.Query)
	if !ok {
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("invalid Query type: %T", itf))
	}

	switch q.Type {
	case internal.QueryTGet:
		val, ok, err := fsm.data.Get(q.Key)
		if err != nil {
			return nil, err
		}
		return internal.QueryResult{Value: val, Ok: ok}, nil
	case internal.QueryTHas:
		return fsm.data.Has(q.Key)
	default:
		return nil, store.NewError(store.RetCInvalidOperation, fmt.Sprintf("unknown Query operation: %d", q.Type))
	}
}

// Update applies write commands. The result value of every entry is a store.RetCode,
// the result data holds the encoded counter for increments and the error message on failure.
func (fsm *KVStateMachine) Update(entries []sm.Entry) ([]sm.Entry, error) {
	if len(entries) == 0 {
		return entries, nil
	}

	start := time.Now()
	cmd := internal.Command{}
	for idx, e := range entries {
		if len(e.Cmd) == 0 {
			entries[idx].Result = errorResult(store.NewError(store.RetCInvalidOperation, "empty command ignored"))
			continue
		}
		if err := cmd.Deserialize(e.Cmd); err != nil {
			entries[idx].Result = errorResult(store.NewError(store.RetCInternalError, fmt.Sprintf("failed to deserialize command: %v", err)))
			continue
		}
		entries[idx].Result = fsm.apply(&cmd)
	}

	if elapsed := time.Since(start); elapsed > time.Millisecond {
		log.Infof("State machine took long to update. Batch updated %d entries, took %.2fms", len(entries), float64(elapsed)/float64(time.Millisecond))
	}
	return entries, nil
}

func (fsm *KVStateMachine) apply(cmd *internal.Command) sm.Result {
	switch cmd.Type {
	case internal.CommandTSet:
		// the command buffer is reused for the next entry
		if err := fsm.data.Set(cmd.Key, append([]byte(nil), cmd.Value...)); err != nil {
			return errorResult(err)
		}
		return sm.Result{Value: uint64(store.RetCSuccess)}
	case internal.CommandTDelete:
		if err := fsm.data.Delete(cmd.Key); err != nil {
			return errorResult(err)
		}
		return sm.Result{Value: uint64(store.RetCSuccess)}
	case internal.CommandTIncrement:
		v, err := fsm.data.Increment(cmd.Key, cmd.Delta, true)
		if err != nil {
			return errorResult(err)
		}
		return sm.Result{Value: uint64(store.RetCSuccess), Data: store.EncodeCounter(v)}
	case internal.CommandTSetIfUnset:
		ok, err := fsm.data.SetIfUnset(cmd.Key, append([]byte(nil), cmd.Value...))
		if err != nil {
			return errorResult(err)
		}
		return sm.Result{Value: uint64(store.RetCSuccess), Data: encodeBool(ok)}
	case internal.CommandTCompareAndSet:
		ok, err := fsm.data.CompareAndSet(cmd.Key, cmd.Expected, append([]byte(nil), cmd.Value...))
		if err != nil {
			return errorResult(err)
		}
		return sm.Result{Value: uint64(store.RetCSuccess), Data: encodeBool(ok)}
	case internal.CommandTAppend:
		if err := fsm.data.Append(cmd.Key, cmd.Value); err != nil {
			return errorResult(err)
		}
		return sm.Result{Value: uint64(store.RetCSuccess)}
	default:
		return errorResult(store.NewError(store.RetCInvalidOperation, fmt.Sprintf("unknown Command operation: %s", cmd.Type)))
	}
}

// encodeBool and decodeBool carry the outcome of conditional writes in the result data.
func encodeBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decodeBool(data []byte) bool {
	return len(data) == 1 && data[0] == 1
}

func errorResult(err error) sm.Result {
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return sm.Result{Value: uint64(storeErr.Code), Data: []byte(storeErr.Msg)}
	}
	return sm.Result{Value: uint64(store.RetCInternalError), Data: []byte(err.Error())}
}

// PrepareSnapshot is not used. We don't need to prepare anything since we use fuzzy snapshotting
func (fsm *KVStateMachine) PrepareSnapshot() (interface{}, error) {
	return nil, nil
}

// SaveSnapshot saves a fuzzy snapshot of the data layer to the writer
func (fsm *KVStateMachine) SaveSnapshot(_ interface{}, writer io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	return fsm.data.Save(writer)
}

// RecoverFromSnapshot replaces the data layer with the snapshot.
func (fsm *KVStateMachine) RecoverFromSnapshot(r io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	return fsm.data.Load(r)
}

// Close performs any necessary cleanup.
func (fsm *KVStateMachine) Close() error {
	return fsm.data.Close()
}
