package keyspace

import (
	"fmt"
	"sync/atomic"
)

// stats holds the running counters exposed via GETSTATS and
// internal/adminhttp's Prometheus counters. Every field is updated with
// atomic ops so readers never need the keyspace's own lock.
type stats struct {
	hits            atomic.Int64
	misses          atomic.Int64
	evictions       atomic.Int64
	expiredRemovals atomic.Int64
}

func (s *stats) reset() {
	s.hits.Store(0)
	s.misses.Store(0)
	s.evictions.Store(0)
	s.expiredRemovals.Store(0)
}

// Stats is a point-in-time snapshot of a Keyspace's counters.
type Stats struct {
	Hits            int64
	Misses          int64
	Evictions       int64
	ExpiredRemovals int64
	TotalEntries    int64
}

// String renders Stats the way GETSTATS replies.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Total Entries: %d, Hits: %d, Misses: %d, Evictions: %d, Expired Removals: %d",
		s.TotalEntries, s.Hits, s.Misses, s.Evictions, s.ExpiredRemovals,
	)
}
