package query

// State is the freshness of a cache entry.
//
//	Empty -> Pending -> Fresh | Failed
//	Fresh -> Stale (invalidation) -> Pending
//	Failed -> Pending (next read)
type State int

const (
	Empty State = iota
	Pending
	Fresh
	Stale
	Failed
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Pending:
		return "pending"
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
