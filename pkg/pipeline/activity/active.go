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

	"github.com/dugoutlabs/statline/pkg/aggregate"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/retry"
	"github.com/dugoutlabs/statline/pkg/stats"
)

// ComputeActiveAccrued replays every league's roster interval history
// against the season's game events and rebuilds the active-accrued lines.
// Leagues fan out in parallel and fail independently: an interval-stream
// error skips that league and surfaces in the output, the rest keep going.
func (c *Context) ComputeActiveAccrued(ctx context.Context, input types.ActiveInput) (types.ActiveOutput, error) {
	start := time.Now()

	asOf, err := time.Parse("2006-01-02", input.StatDate)
	if err != nil {
		return types.ActiveOutput{}, fmt.Errorf("invalid stat date %q: %w", input.StatDate, err)
	}

	leagues, err := c.CanonicalDB.ListLeagues(ctx)
	if err != nil {
		return types.ActiveOutput{}, fmt.Errorf("list leagues: %w", err)
	}

	// One event load shared by every league's replay. The window opens at
	// the earliest active interval on record, not the turn of the year:
	// spans replay their full [effective_date, end_date] range, so a roster
	// carried over from a prior season must see its prior-season games too.
	from, err := c.CanonicalDB.EarliestActiveStart(ctx)
	if err != nil {
		return types.ActiveOutput{}, fmt.Errorf("earliest active interval: %w", err)
	}
	eventsByPlayer := make(map[string][]*statsmodels.GameEvent)
	if !from.IsZero() && !from.After(asOf) {
		events, err := c.CanonicalDB.GameEventsInRange(ctx, from, asOf)
		if err != nil {
			return types.ActiveOutput{}, fmt.Errorf("load replay events: %w", err)
		}
		for _, ev := range events {
			eventsByPlayer[ev.PlayerID] = append(eventsByPlayer[ev.PlayerID], ev)
		}
	}

	var (
		mu        sync.Mutex
		processed int
		updated   int
		overlaps  int
		runErrs   []types.RunError
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
			n, ov, err := c.replayLeague(groupCtx, lg.LeagueID, asOf, eventsByPlayer)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.Logger.Error("league replay failed",
					zap.Uint64("league_id", lg.LeagueID),
					zap.Error(err))
				runErrs = append(runErrs, types.RunError{
					Stage:   "active_accrued",
					Unit:    strconv.FormatUint(lg.LeagueID, 10),
					Message: err.Error(),
				})
				return
			}
			processed++
			updated += n
			overlaps += ov
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		c.Logger.Warn("active-accrued fan-out encountered error", zap.Error(err))
	}

	c.Logger.Info("active-accrued aggregates recomputed",
		zap.String("as_of", input.StatDate),
		zap.Int("leagues_processed", processed),
		zap.Int("records_updated", updated),
		zap.Int("overlaps_detected", overlaps),
		zap.Int("failed_leagues", len(runErrs)))

	return types.ActiveOutput{
		LeaguesProcessed: processed,
		RecordsUpdated:   updated,
		OverlapsDetected: overlaps,
		Errors:           runErrs,
		DurationMs:       float64(time.Since(start).Milliseconds()),
	}, nil
}

// replayLeague rebuilds one league's active-accrued lines from its full
// interval history. Overlapping same-key intervals are merged before
// accrual, so the stat totals stay correct even when the upstream stream
// violates its disjointness guarantee; the count is still reported upward.
func (c *Context) replayLeague(ctx context.Context, leagueID uint64, asOf time.Time, eventsByPlayer map[string][]*statsmodels.GameEvent) (int, int, error) {
	intervals, err := c.CanonicalDB.ActiveIntervals(ctx, leagueID)
	if err != nil {
		return 0, 0, fmt.Errorf("load intervals: %w", err)
	}

	arena := aggregate.NewArena(intervals, asOf)
	if ov := arena.OverlapCount(); ov > 0 {
		c.Logger.Warn("overlapping active intervals in roster stream",
			zap.Uint64("league_id", leagueID),
			zap.Int("overlaps", ov))
	}

	now := time.Now().UTC()
	rows := make([]*statsmodels.ActiveAccruedAggregate, 0, len(arena.Keys()))
	for _, key := range arena.Keys() {
		spans := arena.Spans(key)
		counting := aggregate.Accrue(spans, eventsByPlayer[key.MLBPlayerID])
		first, last := arena.Bounds(key)
		rows = append(rows, &statsmodels.ActiveAccruedAggregate{
			MLBPlayerID:     key.MLBPlayerID,
			LeagueID:        leagueID,
			TeamID:          key.TeamID,
			FirstActiveDate: first,
			LastActiveDate:  last,
			TotalActiveDays: arena.ActiveDays(key),
			Counting:        counting,
			Rates:           stats.Derive(counting),
			UpdatedAt:       now,
		})
	}

	err = retry.WithBackoff(ctx, retry.Once(), c.Logger, "upsert_active_accrued", func() error {
		return c.CanonicalDB.UpsertActiveAccrued(ctx, rows)
	})
	if err != nil {
		return 0, 0, fmt.Errorf("upsert active accrued: %w", err)
	}
	return len(rows), arena.OverlapCount(), nil
}
