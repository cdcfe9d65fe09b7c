package cachedstats

import (
	"context"
	"sync"
	"time"

	"video-gallery/pkg/stats"
)

// CachedStats holds the most recently collected library statistics so the
// stats endpoint does not walk the video directory on every request.
type CachedStats struct {
	sync.RWMutex
	data    stats.Library
	ready   bool
	collect func() stats.Library
}

// New returns a cache that refreshes itself with collect.
func New(collect func() stats.Library) *CachedStats {
	return &CachedStats{collect: collect}
}

// RunUpdater refreshes the cache immediately and then every interval until
// ctx is cancelled.
func (cs *CachedStats) RunUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			cs.Update()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Update collects fresh statistics. Collection runs outside the lock.
func (cs *CachedStats) Update() {
	data := cs.collect()

	cs.Lock()
	defer cs.Unlock()
	cs.data = data
	cs.ready = true
}

// GetData returns the cached statistics, collecting them first if the
// updater has not run yet.
func (cs *CachedStats) GetData() stats.Library {
	cs.RLock()
	data, ready := cs.data, cs.ready
	cs.RUnlock()

	if !ready {
		cs.Update()
		return cs.GetData()
	}
	return data
}
