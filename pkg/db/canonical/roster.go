package canonical

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/dugoutlabs/statline/pkg/db/clickhouse"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// initRosterIntervals creates the roster interval stream. The table is
// append-only from this engine's point of view; the league-transaction
// subsystem owns writes in production, but the engine still creates the
// schema so a fresh deployment is self-contained.
func (db *DB) initRosterIntervals(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		ORDER BY (league_id, mlb_player_id, team_id, effective_date)
	`, db.Name, statsmodels.RosterStatusIntervalsTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.RosterStatusIntervalColumns),
		clickhouse.Engine(clickhouse.MergeTree, ""))
	return db.Exec(ctx, query)
}

// InsertRosterIntervals appends roster interval rows. Used by fixtures and
// backfills; live intervals flow in from the transaction subsystem.
func (db *DB) InsertRosterIntervals(ctx context.Context, intervals []*statsmodels.RosterStatusInterval) error {
	if len(intervals) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`INSERT INTO "%s"."%s" (league_id, league_player_id, mlb_player_id, team_id, status, effective_date, end_date, created_at) VALUES`,
		db.Name, statsmodels.RosterStatusIntervalsTableName,
	)
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, iv := range intervals {
		err = batch.Append(
			iv.LeagueID, iv.LeaguePlayerID, iv.MLBPlayerID, iv.TeamID,
			iv.Status, iv.EffectiveDate, iv.EndDate, iv.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return batch.Send()
}

// EarliestActiveStart returns the earliest effective_date across all active
// intervals, or the zero time when none exist. The replay stage sizes its
// event load from it so carryover rosters keep their full history.
func (db *DB) EarliestActiveStart(ctx context.Context) (time.Time, error) {
	var (
		count    uint64
		earliest time.Time
	)
	query := fmt.Sprintf(`
		SELECT count(), min(effective_date) FROM "%s"."%s"
		WHERE status = ?
	`, db.Name, statsmodels.RosterStatusIntervalsTableName)
	if err := db.QueryRow(ctx, query, statsmodels.StatusActive).Scan(&count, &earliest); err != nil {
		return time.Time{}, fmt.Errorf("select earliest active interval: %w", err)
	}
	if count == 0 {
		return time.Time{}, nil
	}
	return earliest, nil
}

// ActiveIntervals returns every active-status interval for one league,
// ordered so the replay arena sees a deterministic stream. Open intervals
// come back with a nil end date; the arena resolves them to the as-of date.
func (db *DB) ActiveIntervals(ctx context.Context, leagueID uint64) ([]*statsmodels.RosterStatusInterval, error) {
	var intervals []*statsmodels.RosterStatusInterval
	query := fmt.Sprintf(`
		SELECT * FROM "%s"."%s"
		WHERE league_id = ? AND status = ?
		ORDER BY mlb_player_id, team_id, effective_date
	`, db.Name, statsmodels.RosterStatusIntervalsTableName)
	if err := db.Select(ctx, &intervals, query, leagueID, statsmodels.StatusActive); err != nil {
		return nil, fmt.Errorf("select active intervals for league %d: %w", leagueID, err)
	}
	return intervals, nil
}
