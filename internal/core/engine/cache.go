package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/metrics"
)

const (
	// DefaultCacheEntries bounds the number of reports and fights a FightCache keeps.
	DefaultCacheEntries = 16

	// DefaultLoadTimeout bounds one shared upstream load.
	DefaultLoadTimeout = 5 * time.Minute
)

// FightLoader loads report metadata and reconstructed fights.
type FightLoader interface {
	Report(ctx context.Context, code string) (*core.Report, error)
	LoadFight(ctx context.Context, code string, fightID int64) (*FightData, error)
}

// FightCache keeps recently loaded reports and fights in memory. Concurrent
// requests for the same key share one load, which runs detached from any
// single caller: a caller that gives up stops waiting without cancelling the
// load for the others. Entries are evicted oldest first.
type FightCache struct {
	Loader      FightLoader
	MaxEntries  int
	LoadTimeout time.Duration

	mu      sync.Mutex
	entries map[string]any
	order   []string
	group   singleflight.Group
}

// NewFightCache wraps loader with a cache of at most maxEntries entries.
func NewFightCache(loader FightLoader, maxEntries int) *FightCache {
	return &FightCache{Loader: loader, MaxEntries: maxEntries}
}

// Report returns the cached report metadata, loading it on first use.
func (c *FightCache) Report(ctx context.Context, code string) (*core.Report, error) {
	code = strings.TrimSpace(code)
	v, err := c.get(ctx, "report", "report/"+code, func(ctx context.Context) (any, error) {
		return c.Loader.Report(ctx, code)
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.Report), nil
}

// LoadFight returns the cached fight, loading it on first use.
func (c *FightCache) LoadFight(ctx context.Context, code string, fightID int64) (*FightData, error) {
	code = strings.TrimSpace(code)
	key := fmt.Sprintf("fight/%s/%d", code, fightID)
	v, err := c.get(ctx, "fight", key, func(ctx context.Context) (any, error) {
		return c.Loader.LoadFight(ctx, code, fightID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*FightData), nil
}

// Len returns the number of cached entries.
func (c *FightCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *FightCache) get(ctx context.Context, kind, key string, load func(context.Context) (any, error)) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	v, ok := c.entries[key]
	c.mu.Unlock()
	metrics.RecordCacheLookup(kind, ok)
	if ok {
		return v, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout())
		defer cancel()

		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *FightCache) loadTimeout() time.Duration {
	if c.LoadTimeout <= 0 {
		return DefaultLoadTimeout
	}
	return c.LoadTimeout
}

func (c *FightCache) store(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries == nil {
		c.entries = make(map[string]any)
	}
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = v

	limit := c.MaxEntries
	if limit <= 0 {
		limit = DefaultCacheEntries
	}
	for len(c.order) > limit {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}
