package league

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// SyncTableConfig describes how one canonical aggregate table projects into
// its tenant-side counterpart. The column lists are identical on both sides;
// the pool filter narrows rows to players in this league's pool.
type SyncTableConfig struct {
	TargetTable  string
	SourceTable  string
	Columns      []string
	PlayerColumn string
	// LeagueScoped marks sources whose rows carry a league_id; only this
	// league's rows are projected.
	LeagueScoped bool
}

// SyncTableConfigs returns the projection plan, one entry per tenant table.
func SyncTableConfigs() []SyncTableConfig {
	return []SyncTableConfig{
		{
			TargetTable:  SeasonStatsTableName,
			SourceTable:  statsmodels.SeasonAggregatesTableName,
			Columns:      statsmodels.ColumnNames(statsmodels.SeasonAggregateColumns),
			PlayerColumn: "player_id",
		},
		{
			TargetTable:  RollingStatsTableName,
			SourceTable:  statsmodels.RollingAggregatesTableName,
			Columns:      statsmodels.ColumnNames(statsmodels.RollingAggregateColumns),
			PlayerColumn: "player_id",
		},
		{
			TargetTable:  ActiveStatsTableName,
			SourceTable:  statsmodels.ActiveAccruedTableName,
			Columns:      statsmodels.ColumnNames(statsmodels.ActiveAccruedColumns),
			PlayerColumn: "mlb_player_id",
			LeagueScoped: true,
		},
	}
}

// SyncFromCanonical replaces this league's stat tables with a fresh
// projection of the canonical aggregates, filtered to the league's player
// pool. Each table syncs independently: a failure on one is logged and the
// rest still sync, so a torn table never takes the whole tenant down. The
// operation is idempotent and safe to retry.
//
// Returns the number of rows projected across all tables.
func (db *DB) SyncFromCanonical(ctx context.Context, canonicalDB string) (uint64, error) {
	var (
		rowsSynced uint64
		failCount  int
	)

	for _, cfg := range SyncTableConfigs() {
		n, err := db.syncTable(ctx, canonicalDB, cfg)
		if err != nil {
			db.Logger.Error("failed to sync table",
				zap.Uint64("league_id", db.LeagueID),
				zap.String("table", cfg.TargetTable),
				zap.Error(err))
			failCount++
			continue
		}
		rowsSynced += n
	}

	db.Logger.Info("league sync complete",
		zap.Uint64("league_id", db.LeagueID),
		zap.Uint64("rows_synced", rowsSynced),
		zap.Int("failed_tables", failCount))

	if failCount > 0 {
		return rowsSynced, fmt.Errorf("league %d sync completed with %d table failures", db.LeagueID, failCount)
	}
	return rowsSynced, nil
}

// syncTable projects one table: delete the tenant copy, then INSERT SELECT
// the deduplicated canonical rows through the pool filter. ClickHouse runs
// the whole projection server-side; no rows transit the worker.
func (db *DB) syncTable(ctx context.Context, canonicalDB string, cfg SyncTableConfig) (uint64, error) {
	columnList := strings.Join(cfg.Columns, ", ")

	poolFilter := fmt.Sprintf(
		`%s IN (SELECT mlb_player_id FROM "%s"."%s" FINAL WHERE league_id = %d)`,
		cfg.PlayerColumn, canonicalDB, statsmodels.LeaguePlayerPoolTableName, db.LeagueID,
	)
	where := poolFilter
	if cfg.LeagueScoped {
		where = fmt.Sprintf("league_id = %d AND %s", db.LeagueID, poolFilter)
	}

	var count uint64
	countQuery := fmt.Sprintf(`SELECT count() FROM "%s"."%s" FINAL WHERE %s`,
		canonicalDB, cfg.SourceTable, where)
	if err := db.QueryRow(ctx, countQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("count source rows for %s: %w", cfg.TargetTable, err)
	}

	deleteQuery := fmt.Sprintf(`TRUNCATE TABLE "%s"."%s"`, db.Name, cfg.TargetTable)
	if err := db.Exec(ctx, deleteQuery); err != nil {
		return 0, fmt.Errorf("truncate %s: %w", cfg.TargetTable, err)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO "%s"."%s" (%s)
		SELECT %s
		FROM "%s"."%s" FINAL
		WHERE %s
	`, db.Name, cfg.TargetTable, columnList, columnList, canonicalDB, cfg.SourceTable, where)
	if err := db.Exec(ctx, insertQuery); err != nil {
		return 0, fmt.Errorf("project into %s: %w", cfg.TargetTable, err)
	}

	db.Logger.Debug("table synced",
		zap.Uint64("league_id", db.LeagueID),
		zap.String("table", cfg.TargetTable),
		zap.Uint64("rows", count))
	return count, nil
}
