package activity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dugoutlabs/statline/pkg/aggregate"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/retry"
	"github.com/dugoutlabs/statline/pkg/stats"
)

// ComputeSeasonAggregates rebuilds every player's season-to-date line from
// the season's game events and replaces the stored rows wholesale. Full
// recomputation means a corrected or late box score heals automatically on
// the next run.
func (c *Context) ComputeSeasonAggregates(ctx context.Context, input types.SeasonInput) (types.SeasonOutput, error) {
	start := time.Now()

	events, err := c.CanonicalDB.GameEventsForSeason(ctx, input.Season)
	if err != nil {
		return types.SeasonOutput{}, fmt.Errorf("load season %d events: %w", input.Season, err)
	}

	totals := aggregate.SumByPlayer(events)
	now := time.Now().UTC()
	rows := make([]*statsmodels.SeasonAggregate, 0, len(totals))
	for playerID, counting := range totals {
		rows = append(rows, &statsmodels.SeasonAggregate{
			PlayerID:  playerID,
			Season:    input.Season,
			Counting:  counting,
			Rates:     stats.Derive(counting),
			UpdatedAt: now,
		})
	}

	err = retry.WithBackoff(ctx, retry.Once(), c.Logger, "upsert_season_aggregates", func() error {
		return c.CanonicalDB.UpsertSeasonAggregates(ctx, rows)
	})
	if err != nil {
		return types.SeasonOutput{}, fmt.Errorf("upsert season aggregates: %w", err)
	}

	c.Logger.Info("season aggregates recomputed",
		zap.Uint16("season", input.Season),
		zap.Int("players", len(rows)),
		zap.Int("events", len(events)))

	return types.SeasonOutput{
		PlayersUpdated: len(rows),
		DurationMs:     float64(time.Since(start).Milliseconds()),
	}, nil
}
