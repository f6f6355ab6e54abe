package activity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/utils"
)

// CleanupRollingAggregates purges rolling snapshots older than the retention
// horizon (STATS_ROLLING_RETENTION_DAYS, default 45). The horizon keeps
// every snapshot any 30-day window consumer could still page back to, with
// slack for late reruns.
func (c *Context) CleanupRollingAggregates(ctx context.Context, input types.CleanupInput) (types.CleanupOutput, error) {
	start := time.Now()

	asOf, err := time.Parse("2006-01-02", input.StatDate)
	if err != nil {
		return types.CleanupOutput{}, fmt.Errorf("invalid stat date %q: %w", input.StatDate, err)
	}

	retentionDays := utils.EnvInt("STATS_ROLLING_RETENTION_DAYS", 45)
	cutoff := asOf.AddDate(0, 0, -retentionDays)

	purged, err := c.CanonicalDB.DeleteRollingBefore(ctx, cutoff)
	if err != nil {
		return types.CleanupOutput{}, fmt.Errorf("purge rolling snapshots: %w", err)
	}

	c.Logger.Info("rolling snapshots purged",
		zap.String("cutoff", cutoff.Format("2006-01-02")),
		zap.Uint64("rows_purged", purged))

	return types.CleanupOutput{
		RowsPurged: purged,
		DurationMs: float64(time.Since(start).Milliseconds()),
	}, nil
}
