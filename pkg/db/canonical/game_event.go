package canonical

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/dugoutlabs/statline/pkg/db/clickhouse"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// initGameEvents creates the box-score table. ReplacingMergeTree keyed by
// (player_id, game_date): provider corrections arrive as upserts of the same
// key with a newer updated_at and collapse on merge.
func (db *DB) initGameEvents(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		PARTITION BY toYYYYMM(game_date)
		ORDER BY (player_id, game_date)
	`, db.Name, statsmodels.GameEventsTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.GameEventColumns),
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"))
	return db.Exec(ctx, query)
}

// InsertGameEvents writes box-score lines as a single batch. Re-inserting an
// existing (player_id, game_date) key replaces the prior line.
func (db *DB) InsertGameEvents(ctx context.Context, events []*statsmodels.GameEvent) error {
	if len(events) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, statsmodels.GameEventsTableName,
		strings.Join(statsmodels.ColumnNames(statsmodels.GameEventColumns), ", "))
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, e := range events {
		err = batch.Append(
			e.PlayerID, e.GameDate, e.Team, e.Opponent, e.HomeAway,
			e.AtBats, e.Hits, e.Runs, e.RunsBattedIn, e.HomeRuns, e.Doubles, e.Triples,
			e.StolenBases, e.CaughtStealing, e.Walks, e.Strikeouts, e.HitByPitch,
			e.OutsPitched, e.EarnedRuns, e.HitsAllowed, e.WalksAllowed, e.PitcherStrikeouts,
			e.Wins, e.Losses, e.Saves, e.BlownSaves, e.Holds,
			e.WasStartingPitcher, e.IsQualityStart,
			e.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return batch.Send()
}

// GameEventsForSeason returns every deduplicated box-score line for the given
// calendar-year season.
func (db *DB) GameEventsForSeason(ctx context.Context, season uint16) ([]*statsmodels.GameEvent, error) {
	var events []*statsmodels.GameEvent
	query := fmt.Sprintf(`
		SELECT * FROM "%s"."%s" FINAL
		WHERE toYear(game_date) = ?
		ORDER BY player_id, game_date
	`, db.Name, statsmodels.GameEventsTableName)
	if err := db.SelectWithFinal(ctx, &events, query, season); err != nil {
		return nil, fmt.Errorf("select season %d game events: %w", season, err)
	}
	return events, nil
}

// GameEventsInRange returns deduplicated box-score lines with game_date in
// [from, to], both bounds inclusive.
func (db *DB) GameEventsInRange(ctx context.Context, from, to time.Time) ([]*statsmodels.GameEvent, error) {
	var events []*statsmodels.GameEvent
	query := fmt.Sprintf(`
		SELECT * FROM "%s"."%s" FINAL
		WHERE game_date >= ? AND game_date <= ?
		ORDER BY player_id, game_date
	`, db.Name, statsmodels.GameEventsTableName)
	if err := db.SelectWithFinal(ctx, &events, query, from, to); err != nil {
		return nil, fmt.Errorf("select game events in range: %w", err)
	}
	return events, nil
}
