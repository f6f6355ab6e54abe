package canonical

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/dugoutlabs/statline/pkg/db/clickhouse"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// initSeasonAggregates creates the season-to-date table. One row per
// (player_id, season); each run replaces the row wholesale.
func (db *DB) initSeasonAggregates(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		ORDER BY (player_id, season)
	`, db.Name, statsmodels.SeasonAggregatesTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.SeasonAggregateColumns),
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"))
	return db.Exec(ctx, query)
}

// UpsertSeasonAggregates writes season lines as a single batch.
func (db *DB) UpsertSeasonAggregates(ctx context.Context, rows []*statsmodels.SeasonAggregate) error {
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, statsmodels.SeasonAggregatesTableName,
		strings.Join(statsmodels.ColumnNames(statsmodels.SeasonAggregateColumns), ", "))
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, row := range rows {
		values := []any{row.PlayerID, row.Season}
		values = append(values, statsmodels.CountingValues(row.Counting)...)
		values = append(values, statsmodels.RateValues(row.Rates)...)
		values = append(values, row.UpdatedAt)
		if err := batch.Append(values...); err != nil {
			return err
		}
	}

	return batch.Send()
}
