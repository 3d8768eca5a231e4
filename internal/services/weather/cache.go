package weather

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"mosmix-api/internal/models"
)

const stationsKey = "stations"

// LoadFunc fetches a fresh station list.
type LoadFunc func(ctx context.Context) ([]models.Station, error)

type CacheOptions struct {
	// TTL of zero keeps a successful load for the process lifetime.
	TTL time.Duration
	// LoadTimeout bounds a shared load. Zero means no bound.
	LoadTimeout time.Duration
}

// StationCache holds the parsed catalog. Concurrent misses share a single
// load; failed loads are not stored so the next caller retries.
type StationCache struct {
	load        LoadFunc
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time
	group       singleflight.Group

	mu       sync.RWMutex
	stations []models.Station
	loadedAt time.Time
	loaded   bool
	loads    int
}

func NewStationCache(load LoadFunc, opts CacheOptions) *StationCache {
	return &StationCache{
		load:        load,
		ttl:         opts.TTL,
		loadTimeout: opts.LoadTimeout,
		now:         time.Now,
	}
}

func (c *StationCache) cached() ([]models.Station, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(c.loadedAt) >= c.ttl {
		return nil, false
	}
	return c.stations, true
}

// stale returns the last stored stations regardless of age.
func (c *StationCache) stale() []models.Station {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stations
}

// Get returns the cached stations, loading them on a miss. Cancelling ctx
// stops the wait but not a load other callers may share. When a reload of an
// expired catalog fails, Get returns the expired stations together with the
// error.
func (c *StationCache) Get(ctx context.Context) ([]models.Station, error) {
	if stations, ok := c.cached(); ok {
		return stations, nil
	}

	ch := c.group.DoChan(stationsKey, func() (any, error) {
		if stations, ok := c.cached(); ok {
			return stations, nil
		}
		return c.refresh()
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return c.stale(), res.Err
		}
		return res.Val.([]models.Station), nil
	}
}

// refresh runs on a context owned by the cache: the load outlives whichever
// request triggered it.
func (c *StationCache) refresh() ([]models.Station, error) {
	ctx := context.Background()
	if c.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.loadTimeout)
		defer cancel()
	}

	stations, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.stations = stations
	c.loadedAt = c.now()
	c.loaded = true
	c.loads++
	c.mu.Unlock()

	return stations, nil
}

// Loads reports how many successful loads have been stored.
func (c *StationCache) Loads() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loads
}
