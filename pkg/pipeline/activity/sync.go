package activity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/retry"
)

// SyncLeagueStores projects the fresh canonical aggregates into every
// unpaused league's private database. Tenants sync in parallel and fail
// independently: one unreachable league database is retried once, then
// reported in the output while the rest complete. The projection itself is
// idempotent, so the next run heals any tenant this one missed.
func (c *Context) SyncLeagueStores(ctx context.Context, input types.SyncInput) (types.SyncOutput, error) {
	start := time.Now()

	leagues, err := c.CanonicalDB.ListLeagues(ctx)
	if err != nil {
		return types.SyncOutput{}, fmt.Errorf("list leagues: %w", err)
	}

	canonicalDB := c.CanonicalDB.DatabaseName()

	var (
		mu      sync.Mutex
		synced  int
		rows    uint64
		runErrs []types.RunError
	)

	group := c.workerPool().NewGroupContext(ctx)
	groupCtx := group.Context()

	for _, lg := range leagues {
		if lg.Paused == 1 {
			continue
		}
		lg := lg
		group.Submit(func() {
			if groupCtx.Err() != nil {
				return
			}
			n, err := c.syncLeague(groupCtx, lg.LeagueID, canonicalDB)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.Logger.Error("league sync failed",
					zap.Uint64("league_id", lg.LeagueID),
					zap.Error(err))
				runErrs = append(runErrs, types.RunError{
					Stage:   "sync",
					Unit:    strconv.FormatUint(lg.LeagueID, 10),
					Message: err.Error(),
				})
				return
			}
			synced++
			rows += n
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		c.Logger.Warn("league sync fan-out encountered error", zap.Error(err))
	}

	c.Logger.Info("league stores synced",
		zap.String("stat_date", input.StatDate),
		zap.Int("leagues_synced", synced),
		zap.Uint64("rows_synced", rows),
		zap.Int("failed_leagues", len(runErrs)))

	return types.SyncOutput{
		LeaguesSynced: synced,
		RowsSynced:    rows,
		Errors:        runErrs,
		DurationMs:    float64(time.Since(start).Milliseconds()),
	}, nil
}

func (c *Context) syncLeague(ctx context.Context, leagueID uint64, canonicalDB string) (uint64, error) {
	db, err := c.NewLeagueDb(ctx, leagueID)
	if err != nil {
		return 0, fmt.Errorf("open league store: %w", err)
	}

	var rows uint64
	err = retry.WithBackoff(ctx, retry.Once(), c.Logger, "sync_league_"+strconv.FormatUint(leagueID, 10), func() error {
		var syncErr error
		rows, syncErr = db.SyncFromCanonical(ctx, canonicalDB)
		return syncErr
	})
	if err != nil {
		return 0, err
	}
	return rows, nil
}
