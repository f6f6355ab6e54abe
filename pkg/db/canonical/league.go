package canonical

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/dugoutlabs/statline/pkg/db/clickhouse"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// initLeagues creates the tenant registry table.
func (db *DB) initLeagues(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		ORDER BY league_id
	`, db.Name, statsmodels.LeaguesTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.LeagueColumns),
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"))
	return db.Exec(ctx, query)
}

// initLeaguePlayerPool creates the per-league player pool table.
func (db *DB) initLeaguePlayerPool(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		ORDER BY (league_id, mlb_player_id)
	`, db.Name, statsmodels.LeaguePlayerPoolTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.LeaguePlayerPoolColumns),
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "added_at"))
	return db.Exec(ctx, query)
}

// UpsertLeague registers or updates a tenant.
func (db *DB) UpsertLeague(ctx context.Context, league *statsmodels.League) error {
	query := fmt.Sprintf(
		`INSERT INTO "%s"."%s" (league_id, name, paused, updated_at) VALUES`,
		db.Name, statsmodels.LeaguesTableName,
	)
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	if err := batch.Append(league.LeagueID, league.Name, league.Paused, time.Now().UTC()); err != nil {
		return err
	}
	return batch.Send()
}

// ListLeagues returns every registered tenant, paused ones included; callers
// filter on Paused when fanning out.
func (db *DB) ListLeagues(ctx context.Context) ([]*statsmodels.League, error) {
	var leagues []*statsmodels.League
	query := fmt.Sprintf(`
		SELECT * FROM "%s"."%s" FINAL
		ORDER BY league_id
	`, db.Name, statsmodels.LeaguesTableName)
	if err := db.SelectWithFinal(ctx, &leagues, query); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}
	return leagues, nil
}

// AddPoolPlayers adds players to one league's pool.
func (db *DB) AddPoolPlayers(ctx context.Context, leagueID uint64, playerIDs []string) error {
	if len(playerIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`INSERT INTO "%s"."%s" (league_id, mlb_player_id, added_at) VALUES`,
		db.Name, statsmodels.LeaguePlayerPoolTableName,
	)
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	now := time.Now().UTC()
	for _, id := range playerIDs {
		if err := batch.Append(leagueID, id, now); err != nil {
			return err
		}
	}
	return batch.Send()
}
