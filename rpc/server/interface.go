package server

import (
	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/ValentinKolb/aKV/rpc/common"
)

// IRPCServerAdapter applies a decoded request to the store of its shard. Store errors
// are not returned but carried by the response with their return code.
type IRPCServerAdapter interface {
	Handle(req *common.Message, store store.IStore) (resp *common.Message)
}
