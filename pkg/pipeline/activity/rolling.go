package activity

import (
	"context"
	"errors"
	"fmt"
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

// rollingLabels fixes the recompute order so logs and tests stay stable.
var rollingLabels = []string{statsmodels.Rolling7d, statsmodels.Rolling14d, statsmodels.Rolling30d}

// ComputeRollingAggregates recomputes every trailing window from scratch as
// of the stat date and writes one snapshot row per player and window. The
// windows are independent: a failure in one is reported in the output and
// the others still land.
func (c *Context) ComputeRollingAggregates(ctx context.Context, input types.RollingInput) (types.RollingOutput, error) {
	start := time.Now()

	asOf, err := time.Parse("2006-01-02", input.StatDate)
	if err != nil {
		return types.RollingOutput{}, fmt.Errorf("invalid stat date %q: %w", input.StatDate, err)
	}

	var (
		mu      sync.Mutex
		written int
		runErrs []types.RunError
	)

	group := c.workerPool().NewGroupContext(ctx)
	groupCtx := group.Context()

	for _, label := range rollingLabels {
		label := label
		group.Submit(func() {
			if groupCtx.Err() != nil {
				return
			}
			n, err := c.computeWindow(groupCtx, label, asOf)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.Logger.Error("rolling window failed",
					zap.String("window", label),
					zap.String("as_of", input.StatDate),
					zap.Error(err))
				runErrs = append(runErrs, types.RunError{
					Stage:   "rolling",
					Unit:    label,
					Message: err.Error(),
				})
				return
			}
			written += n
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		c.Logger.Warn("rolling fan-out encountered error", zap.Error(err))
	}

	c.Logger.Info("rolling aggregates recomputed",
		zap.String("as_of", input.StatDate),
		zap.Int("snapshots", written),
		zap.Int("failed_windows", len(runErrs)))

	return types.RollingOutput{
		SnapshotsWritten: written,
		Errors:           runErrs,
		DurationMs:       float64(time.Since(start).Milliseconds()),
	}, nil
}

// computeWindow rebuilds one trailing window. The window covers the N
// calendar days ending at the as-of date, both ends inclusive, regardless of
// whether the player appeared in games on those days.
func (c *Context) computeWindow(ctx context.Context, label string, asOf time.Time) (int, error) {
	days, ok := statsmodels.RollingWindowDays[label]
	if !ok {
		return 0, fmt.Errorf("unknown window label %q", label)
	}
	// A label of N days means exactly N calendar dates: the as-of date plus
	// the N-1 before it. Subtracting a full N would make "7d" an
	// eight-day window.
	from := asOf.AddDate(0, 0, -(days - 1))

	events, err := c.CanonicalDB.GameEventsInRange(ctx, from, asOf)
	if err != nil {
		return 0, fmt.Errorf("load events: %w", err)
	}

	totals := aggregate.SumByPlayer(events)
	now := time.Now().UTC()
	rows := make([]*statsmodels.RollingAggregate, 0, len(totals))
	for playerID, counting := range totals {
		rows = append(rows, &statsmodels.RollingAggregate{
			PlayerID:    playerID,
			PeriodLabel: label,
			AsOfDate:    asOf,
			Counting:    counting,
			Rates:       stats.Derive(counting),
			UpdatedAt:   now,
		})
	}

	err = retry.WithBackoff(ctx, retry.Once(), c.Logger, "upsert_rolling_"+label, func() error {
		return c.CanonicalDB.UpsertRollingAggregates(ctx, rows)
	})
	if err != nil {
		return 0, fmt.Errorf("upsert snapshots: %w", err)
	}
	return len(rows), nil
}
