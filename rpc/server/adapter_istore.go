package server

import (
	"fmt"

	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/ValentinKolb/aKV/rpc/common"
)

// NewIStoreServerAdapter creates the adapter translating messages to store.IStore calls
func NewIStoreServerAdapter() IRPCServerAdapter {
	return &iStoreServerAdapterImpl{}
}

type iStoreServerAdapterImpl struct{}

func (adapter *iStoreServerAdapterImpl) Handle(req *common.Message, store store.IStore) *common.Message {
	if store == nil {
		return common.NewErrorResponse("handler: store is nil")
	}

	switch req.MsgType {
	case common.MsgTKVSet:
		err := store.Set(req.Key, req.Value)
		return common.NewSetResponse(err)
	case common.MsgTKVDelete:
		err := store.Delete(req.Key)
		return common.NewDeleteResponse(err)
	case common.MsgTKVGet:
		val, ok, err := store.Get(req.Key)
		return common.NewGetResponse(val, ok, err)
	case common.MsgTKVHas:
		ok, err := store.Has(req.Key)
		return common.NewHasResponse(ok, err)
	case common.MsgTKVIncrement:
		val, err := store.Increment(req.Key, req.Delta, req.Durable)
		return common.NewIncrementResponse(val, err)
	case common.MsgTKVSetIfUnset:
		ok, err := store.SetIfUnset(req.Key, req.Value)
		return common.NewSetIfUnsetResponse(ok, err)
	case common.MsgTKVCompareAndSet:
		ok, err := store.CompareAndSet(req.Key, req.Meta, req.Value)
		return common.NewCompareAndSetResponse(ok, err)
	case common.MsgTKVAppend:
		err := store.Append(req.Key, req.Value)
		return common.NewAppendResponse(err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC IStoreAdapter - unsupported message type: %s", req.MsgType),
		)
	}
}
