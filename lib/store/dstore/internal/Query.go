package internal

// QueryType selects the read performed by Lookup.
type QueryType uint8

const (
	QueryTGet QueryType = iota
	QueryTHas
)

func (q QueryType) String() string {
	switch q {
	case QueryTGet:
		return "Get"
	case QueryTHas:
		return "Has"
	default:
		return "Unknown"
	}
}

// Query is a read-only request answered by the state machine without a raft proposal.
// Counters are read with QueryTGet and decoded by the caller.
type Query struct {
	Type QueryType
	Key  string
}

// QueryResult answers QueryTGet, QueryTHas answers with a plain bool.
type QueryResult struct {
	Ok    bool
	Value []byte
}
