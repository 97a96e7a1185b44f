package server

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/ValentinKolb/aKV/rpc/client"
	"github.com/ValentinKolb/aKV/rpc/common"
	"github.com/ValentinKolb/aKV/rpc/serializer"
	"github.com/ValentinKolb/aKV/rpc/transport"
	"github.com/ValentinKolb/aKV/rpc/transport/http"
	"github.com/ValentinKolb/aKV/rpc/transport/tcp"
)

type addrTransport interface {
	Addr() net.Addr
}

// startServer serves one local shard with id 1 and returns the listen address
func startServer(t *testing.T, tr transport.IRPCServerTransport) (*RPCServer, string) {
	t.Helper()
	s := NewRPCServer(common.ServerConfig{
		Shards:        []common.ServerShard{{ShardID: 1, Type: common.ShardTypeLocalIStore}},
		TimeoutSecond: 5,
		Transport:     common.ServerTransportConfig{Endpoint: "127.0.0.1:0", WorkersPerConn: 4},
		LogLevel:      "error",
	}, tr, serializer.NewBinarySerializer())

	done := make(chan error, 1)
	go func() { done <- s.Serve() }()
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("serve did not return after close")
		}
	})

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if addr := tr.(addrTransport).Addr(); addr != nil {
			return s, addr.String()
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("server did not start listening")
	return nil, ""
}

func clientConfig(endpoint string) common.ClientConfig {
	return common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:              []string{endpoint},
			RetryCount:             1,
			ConnectionsPerEndpoint: 2,
		},
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		server    func() transport.IRPCServerTransport
		client    func() transport.IRPCClientTransport
		urlPrefix string
	}{
		{"tcp", tcp.NewTCPServerTransport, tcp.NewTCPClientTransport, ""},
		{"http", http.NewHttpServerTransport, http.NewHttpClientTransport, "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, addr := startServer(t, tt.server())

			s, err := client.NewRPCStore(1, clientConfig(tt.urlPrefix+addr), tt.client(), serializer.NewBinarySerializer())
			if err != nil {
				t.Fatalf("connect: %v", err)
			}
			defer s.Close()

			if err := s.Set("greeting", []byte("hello")); err != nil {
				t.Fatalf("set: %v", err)
			}
			value, ok, err := s.Get("greeting")
			if err != nil || !ok || string(value) != "hello" {
				t.Fatalf("get = %q, %v, %v", value, ok, err)
			}

			for i, want := range []int64{5, 3, 103} {
				got, err := s.Increment("visits", []int64{5, -2, 100}[i], i%2 == 0)
				if err != nil {
					t.Fatalf("increment %d: %v", i, err)
				}
				if got != want {
					t.Errorf("increment %d = %d, want %d", i, got, want)
				}
			}

			if ok, err := s.SetIfUnset("greeting", []byte("hi")); err != nil || ok {
				t.Errorf("set if unset on existing key = %v, %v", ok, err)
			}
			if ok, err := s.CompareAndSet("greeting", []byte("hello"), []byte("hi")); err != nil || !ok {
				t.Errorf("compare and set = %v, %v", ok, err)
			}
			if err := s.Append("greeting", []byte(" there")); err != nil {
				t.Fatalf("append: %v", err)
			}
			if value, _, _ := s.Get("greeting"); string(value) != "hi there" {
				t.Errorf("value after append = %q", value)
			}

			if err := s.Delete("greeting"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if ok, err := s.CompareAndSet("greeting", nil, []byte("back")); err != nil || !ok {
				t.Errorf("compare and set on missing key = %v, %v", ok, err)
			}
			if err := s.Delete("greeting"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if ok, err := s.Has("greeting"); err != nil || ok {
				t.Errorf("has after delete = %v, %v", ok, err)
			}
		})
	}
}

func TestRemoteStoreError(t *testing.T) {
	_, addr := startServer(t, tcp.NewTCPServerTransport())

	s, err := client.NewRPCStore(1, clientConfig(addr), tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	if err := s.Set("name", []byte("not a counter")); err != nil {
		t.Fatalf("set: %v", err)
	}
	_, err = s.Increment("name", 1, false)

	var rpcErr *common.RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *common.RPCError, got %T: %v", err, err)
	}
	if rpcErr.Shard != 1 || rpcErr.Op != common.MsgTKVIncrement {
		t.Errorf("unexpected error context: %+v", rpcErr)
	}
	if !errors.Is(err, store.ErrInvalidOperation) {
		t.Errorf("expected invalid operation, got %v", err)
	}
}

func TestUnknownShard(t *testing.T) {
	_, addr := startServer(t, tcp.NewTCPServerTransport())

	s, err := client.NewRPCStore(42, clientConfig(addr), tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	if _, err := s.Increment("visits", 1, false); err == nil {
		t.Fatal("expected error for unknown shard")
	}
}

func TestConcurrentIncrements(t *testing.T) {
	_, addr := startServer(t, tcp.NewTCPServerTransport())

	s, err := client.NewRPCStore(1, clientConfig(addr), tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := s.Increment("hits", 1, false); err != nil {
					t.Errorf("increment: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := s.Increment("hits", 0, false)
	if err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if got != workers*perWorker {
		t.Errorf("counter = %d, want %d", got, workers*perWorker)
	}
}
