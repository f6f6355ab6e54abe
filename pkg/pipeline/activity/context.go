package activity

import (
	"context"
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/dugoutlabs/statline/pkg/db/canonical"
	leaguestore "github.com/dugoutlabs/statline/pkg/db/league"
	"github.com/dugoutlabs/statline/pkg/feed"
	"github.com/dugoutlabs/statline/pkg/redis"
	temporalclient "github.com/dugoutlabs/statline/pkg/temporal"
)

// Context carries the shared dependencies every pipeline activity needs.
// Activities are methods on it so the worker registers one receiver.
type Context struct {
	Logger *zap.Logger

	// Canonical store plus lazily opened per-league stores.
	CanonicalDB canonical.Store
	LeagueDBs   *xsync.Map[uint64, leaguestore.Store]

	// Upstream box-score provider.
	Feed feed.Provider

	// For scheduling workflows.
	TemporalClient *temporalclient.Client

	// For publishing run summaries.
	RedisClient *redis.Client

	// MaxParallelism overrides the default fan-out pool size.
	MaxParallelism int
	poolOnce       sync.Once
	pool           pond.Pool
}

// NewLeagueDb returns a league store for the provided league ID, opening and
// caching it on first use.
func (c *Context) NewLeagueDb(ctx context.Context, leagueID uint64) (leaguestore.Store, error) {
	if db, ok := c.LeagueDBs.Load(leagueID); ok {
		return db, nil
	}

	db, err := leaguestore.New(ctx, c.Logger, leagueID)
	if err != nil {
		return nil, err
	}

	c.LeagueDBs.Store(leagueID, db)
	return db, nil
}

// workerPool returns the shared pool used for per-league and per-window
// fan-out. Sized to the CPU count with a cap; league work is dominated by
// ClickHouse round-trips, not local compute.
func (c *Context) workerPool() pond.Pool {
	c.poolOnce.Do(func() {
		c.pool = pond.NewPool(fanOutParallelism(c.MaxParallelism))
	})
	return c.pool
}

func fanOutParallelism(override int) int {
	if override > 0 {
		if override > 64 {
			return 64
		}
		return override
	}

	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	parallelism := n * 2
	if parallelism < 4 {
		parallelism = 4
	}
	if parallelism > 64 {
		parallelism = 64
	}
	return parallelism
}
