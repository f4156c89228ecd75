package pagewindow

import "sync/atomic"

// Stats is a snapshot of window activity.
type Stats struct {
	// Hits is the number of page lookups served from cache.
	Hits int64
	// Misses is the number of page lookups that needed a fetch.
	Misses int64
	// PageFetches is the number of FetchPage calls issued to the source.
	PageFetches int64
	// CountFetches is the number of FetchCount calls issued to the source.
	CountFetches int64
	// Shared is the number of callers whose page fetch was shared with at least
	// one other caller, the caller that issued it included.
	Shared int64
	// Discarded is the number of fetch results dropped because the window was
	// invalidated while they were in flight.
	Discarded int64
}

type counters struct {
	hits         atomic.Int64
	misses       atomic.Int64
	pageFetches  atomic.Int64
	countFetches atomic.Int64
	shared       atomic.Int64
	discarded    atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		PageFetches:  c.pageFetches.Load(),
		CountFetches: c.countFetches.Load(),
		Shared:       c.shared.Load(),
		Discarded:    c.discarded.Load(),
	}
}
