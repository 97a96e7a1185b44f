package common

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lni/dragonboat/v4/config"
)

// --------------------------------------------------------------------------
// helper functions for to interface with Dragonboat (for the server util)
// --------------------------------------------------------------------------

// Dragonboat uses RTT (Round Trip Time) to determine the timing of elections and heartbeats.
// These default values are selected according to the RAFT Paper
const (
	electionRTTFactor  = 10
	heartbeatRTTFactor = 1
)

// ToDragonboatConfig converts the ServerConfig to Dragonboat Config
func (c *ServerConfig) ToDragonboatConfig(shardId uint64) config.Config {
	return config.Config{
		ReplicaID:          c.ReplicaID,
		ShardID:            shardId,
		ElectionRTT:        electionRTTFactor,
		HeartbeatRTT:       heartbeatRTTFactor,
		CheckQuorum:        true,
		SnapshotEntries:    c.SnapshotEntries,
		CompactionOverhead: c.CompactionOverhead,
		MaxInMemLogSize:    0,
	}
}

// ToNodeHostConfig creates a NodeHostConfig for Dragonboat
func (c *ServerConfig) ToNodeHostConfig() config.NodeHostConfig {
	return config.NodeHostConfig{
		WALDir:         c.DataDir,
		NodeHostDir:    c.DataDir,
		RTTMillisecond: c.RTTMillisecond,
		RaftAddress:    c.ClusterMembers[c.ReplicaID],
	}
}

// --------------------------------------------------------------------------
// Transport configuration (shared by client and server)
// --------------------------------------------------------------------------

// SocketConf holds socket buffer settings, zero keeps the OS default.
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific settings, ignored by other transports.
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int // 0 disables keep-alive
	TCPLingerSec    int // negative keeps the OS default
}

// ServerTransportConfig configures the listening side of a transport.
type ServerTransportConfig struct {
	Endpoint       string
	WorkersPerConn int // concurrent requests handled per connection
	BufferSize     int // size of pooled read buffers
	SocketConf
	TCPConf
}

// ClientTransportConfig configures the dialing side of a transport.
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

type ServerShardType string

const (
	ShardTypeLocalIStore  ServerShardType = "lstore"
	ShardTypeRemoteIStore ServerShardType = "dstore"
)

type ServerShard struct {
	// ShardID is the ID of the shard
	ShardID uint64
	// Type is the store implementation backing the shard
	Type ServerShardType
}

// ServerConfig holds all configuration parameters of a server and its RAFT cluster.
type ServerConfig struct {
	Shards []ServerShard

	// Dragonboat parameters
	RTTMillisecond     uint64
	SnapshotEntries    uint64
	CompactionOverhead uint64
	DataDir            string
	ReplicaID          uint64
	ClusterMembers     map[uint64]string

	// Timeout for RAFT proposals and socket reads/writes
	TimeoutSecond int64

	Transport ServerTransportConfig

	// Logging configuration
	LogLevel string
}

// HasRemoteShard checks if the configuration contains any replicated shards
func (c *ServerConfig) HasRemoteShard() bool {
	for _, shard := range c.Shards {
		if shard.Type == ShardTypeRemoteIStore {
			return true
		}
	}
	return false
}

// formatter builds the aligned, sectioned output of the String methods.
type formatter struct {
	sb strings.Builder
}

func (f *formatter) section(title string) {
	f.sb.WriteString("\n")
	f.sb.WriteString(strings.ToUpper(title))
	f.sb.WriteString("\n")
}

func (f *formatter) field(name, value string) {
	f.sb.WriteString(fmt.Sprintf("  %-24s: %s\n", name, value))
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var f formatter

	f.section("RPC Server")
	f.field("Endpoint", c.Transport.Endpoint)
	f.field("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	f.field("Workers Per Connection", strconv.Itoa(c.Transport.WorkersPerConn))
	f.field("Buffer Size", fmt.Sprintf("%d bytes", c.Transport.BufferSize))

	f.section("Logging")
	f.field("Log Level", c.LogLevel)

	f.section("Shards")
	for _, shard := range c.Shards {
		f.field(strconv.FormatUint(shard.ShardID, 10), string(shard.Type))
	}

	if c.HasRemoteShard() {
		f.section("Node Identity")
		f.field("RAFT Address", c.ClusterMembers[c.ReplicaID])
		f.field("Node ID", strconv.FormatUint(c.ReplicaID, 10))

		f.section("RAFT Parameters")
		f.field("Round Trip Time (ms)", fmt.Sprintf("%d ms", c.RTTMillisecond))
		f.field("Election RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*electionRTTFactor))
		f.field("Heartbeat RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*heartbeatRTTFactor))
		f.field("Snapshot Entries", fmt.Sprintf("%d", c.SnapshotEntries))
		f.field("Compaction Overhead", fmt.Sprintf("%d", c.CompactionOverhead))

		f.section("Storage")
		f.field("Data Directory", c.DataDir)

		f.section("Cluster")
		keys := make([]uint64, 0, len(c.ClusterMembers))
		for k := range c.ClusterMembers {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			f.field(fmt.Sprintf("Node %d", k), c.ClusterMembers[k])
		}
	}
	return f.sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var f formatter

	f.section("Client Configuration")
	f.field("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	f.field("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	f.field("Connections Per Endpoint", strconv.Itoa(max(1, c.Transport.ConnectionsPerEndpoint)))

	f.section("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		f.field(strconv.Itoa(i), endpoint)
	}
	return f.sb.String()
}
