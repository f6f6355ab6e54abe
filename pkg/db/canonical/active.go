package canonical

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/dugoutlabs/statline/pkg/db/clickhouse"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// initActiveAccrued creates the active-accrued table. One row per
// (mlb_player_id, league_id, team_id), replaced wholesale by each run's
// interval replay.
func (db *DB) initActiveAccrued(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		ORDER BY (league_id, mlb_player_id, team_id)
	`, db.Name, statsmodels.ActiveAccruedTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.ActiveAccruedColumns),
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"))
	return db.Exec(ctx, query)
}

// UpsertActiveAccrued writes active-accrued lines as a single batch.
func (db *DB) UpsertActiveAccrued(ctx context.Context, rows []*statsmodels.ActiveAccruedAggregate) error {
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, statsmodels.ActiveAccruedTableName,
		strings.Join(statsmodels.ColumnNames(statsmodels.ActiveAccruedColumns), ", "))
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, row := range rows {
		values := []any{
			row.MLBPlayerID, row.LeagueID, row.TeamID,
			row.FirstActiveDate, row.LastActiveDate, row.TotalActiveDays,
		}
		values = append(values, statsmodels.CountingValues(row.Counting)...)
		values = append(values, statsmodels.RateValues(row.Rates)...)
		values = append(values, row.UpdatedAt)
		if err := batch.Append(values...); err != nil {
			return err
		}
	}

	return batch.Send()
}
