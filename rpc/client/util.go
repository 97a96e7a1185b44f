package client

import (
	"fmt"

	"github.com/ValentinKolb/aKV/rpc/common"
	"github.com/ValentinKolb/aKV/rpc/serializer"
	"github.com/ValentinKolb/aKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter stores all data needed by an implementation of an RPC client
type rpcClientAdapter struct {
	shardId    uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

func (a *rpcClientAdapter) invoke(req *common.Message) (*common.Message, error) {
	return invokeRPCRequest(a.shardId, req, a.transport, a.serializer)
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It takes a shard ID, a request message, a transport layer and a serializer as parameters
// It returns a response message, or an error if any occurs.
// Every error is a *common.RPCError, whose cause is the *store.Error reported by the
// remote store or the transport/serialization failure.
func invokeRPCRequest(shardId uint64, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	fail := func(err error) (*common.Message, error) {
		return nil, &common.RPCError{Shard: shardId, Op: req.MsgType, Err: err}
	}

	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return fail(fmt.Errorf("failed to serialize request: %w", err))
	}

	respBytes, err := transport.Send(shardId, reqBytes)
	if err != nil {
		return fail(err)
	}

	resp := &common.Message{}
	if err := serializer.Deserialize(respBytes, resp); err != nil {
		return fail(fmt.Errorf("failed to deserialize response: %w", err))
	}

	// Check if the response is an error response
	if err := resp.Error(); err != nil {
		return fail(err)
	}
	if resp.MsgType == common.MsgTError {
		return fail(fmt.Errorf("error response without message"))
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return fail(fmt.Errorf("unexpected message type %s, expected %s", resp.MsgType, req.MsgType))
	}

	return resp, nil
}
