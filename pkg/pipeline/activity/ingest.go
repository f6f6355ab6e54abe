package activity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
	"github.com/dugoutlabs/statline/pkg/feed"
	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/retry"
	"github.com/dugoutlabs/statline/pkg/stats"
)

// IngestGameEvents pulls finalized box scores for the stat date from the
// provider and upserts them into the canonical store. Malformed lines are
// skipped and logged; one bad line never fails the batch. Re-ingesting a
// date is an upsert, so provider corrections converge on rerun.
func (c *Context) IngestGameEvents(ctx context.Context, input types.IngestInput) (types.IngestOutput, error) {
	start := time.Now()

	statDate, err := time.Parse("2006-01-02", input.StatDate)
	if err != nil {
		return types.IngestOutput{}, fmt.Errorf("invalid stat date %q: %w", input.StatDate, err)
	}

	lines, err := c.Feed.GamesByDate(ctx, statDate)
	if err != nil {
		return types.IngestOutput{}, fmt.Errorf("fetch box scores: %w", err)
	}

	now := time.Now().UTC()
	events := make([]*statsmodels.GameEvent, 0, len(lines))
	skipped := 0
	for i := range lines {
		ev, reason := buildGameEvent(&lines[i], statDate, now)
		if ev == nil {
			skipped++
			c.Logger.Warn("skipping malformed box-score line",
				zap.String("player_id", lines[i].PlayerID),
				zap.String("stat_date", input.StatDate),
				zap.String("reason", reason))
			continue
		}
		events = append(events, ev)
	}

	err = retry.WithBackoff(ctx, retry.Once(), c.Logger, "insert_game_events", func() error {
		return c.CanonicalDB.InsertGameEvents(ctx, events)
	})
	if err != nil {
		return types.IngestOutput{}, fmt.Errorf("insert game events: %w", err)
	}

	c.Logger.Info("game events ingested",
		zap.String("stat_date", input.StatDate),
		zap.Int("ingested", len(events)),
		zap.Int("skipped", skipped))

	return types.IngestOutput{
		EventsIngested: len(events),
		EventsSkipped:  skipped,
		DurationMs:     float64(time.Since(start).Milliseconds()),
	}, nil
}

// buildGameEvent validates one provider line and converts it into a
// canonical row. Returns nil and a reason when the line is malformed.
func buildGameEvent(line *feed.PlayerLine, statDate time.Time, now time.Time) (*statsmodels.GameEvent, string) {
	if line.PlayerID == "" {
		return nil, "empty player id"
	}
	gameDate, err := time.Parse("2006-01-02", line.GameDate)
	if err != nil {
		return nil, "unparsable game date"
	}
	if !gameDate.Equal(statDate) {
		return nil, "game date outside requested stat date"
	}
	if line.HomeAway != "home" && line.HomeAway != "away" {
		return nil, "home_away not home or away"
	}
	if line.Hits > line.AtBats {
		return nil, "hits exceed at bats"
	}
	if line.Doubles+line.Triples+line.HomeRuns > line.Hits {
		return nil, "extra-base hits exceed hits"
	}

	return &statsmodels.GameEvent{
		PlayerID: line.PlayerID,
		GameDate: gameDate,
		Team:     line.Team,
		Opponent: line.Opponent,
		HomeAway: line.HomeAway,

		AtBats:         line.AtBats,
		Hits:           line.Hits,
		Runs:           line.Runs,
		RunsBattedIn:   line.RunsBattedIn,
		HomeRuns:       line.HomeRuns,
		Doubles:        line.Doubles,
		Triples:        line.Triples,
		StolenBases:    line.StolenBases,
		CaughtStealing: line.CaughtStealing,
		Walks:          line.Walks,
		Strikeouts:     line.Strikeouts,
		HitByPitch:     line.HitByPitch,

		OutsPitched:       line.OutsPitched,
		EarnedRuns:        line.EarnedRuns,
		HitsAllowed:       line.HitsAllowed,
		WalksAllowed:      line.WalksAllowed,
		PitcherStrikeouts: line.PitcherStrikeouts,
		Wins:              line.Wins,
		Losses:            line.Losses,
		Saves:             line.Saves,
		BlownSaves:        line.BlownSaves,
		Holds:             line.Holds,

		WasStartingPitcher: line.WasStartingPitcher,
		// The flag is decided once here from the single outing; season and
		// window counts sum these flags and never re-derive from totals.
		IsQualityStart: line.WasStartingPitcher && stats.IsQualityStart(line.OutsPitched, line.EarnedRuns),

		UpdatedAt: now,
	}, ""
}
