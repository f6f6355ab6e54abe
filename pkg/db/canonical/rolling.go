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

// initRollingAggregates creates the trailing-window snapshot table. One row
// per (player_id, period_label, as_of_date); the retention stage purges rows
// older than the horizon.
func (db *DB) initRollingAggregates(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		PARTITION BY toYYYYMM(as_of_date)
		ORDER BY (player_id, period_label, as_of_date)
	`, db.Name, statsmodels.RollingAggregatesTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.RollingAggregateColumns),
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"))
	return db.Exec(ctx, query)
}

// UpsertRollingAggregates writes one window label's snapshot rows as a batch.
func (db *DB) UpsertRollingAggregates(ctx context.Context, rows []*statsmodels.RollingAggregate) error {
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, statsmodels.RollingAggregatesTableName,
		strings.Join(statsmodels.ColumnNames(statsmodels.RollingAggregateColumns), ", "))
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, row := range rows {
		values := []any{row.PlayerID, row.PeriodLabel, row.AsOfDate}
		values = append(values, statsmodels.CountingValues(row.Counting)...)
		values = append(values, statsmodels.RateValues(row.Rates)...)
		values = append(values, row.UpdatedAt)
		if err := batch.Append(values...); err != nil {
			return err
		}
	}

	return batch.Send()
}

// DeleteRollingBefore purges snapshot rows strictly older than the cutoff
// date using a lightweight DELETE, returning how many rows the horizon
// covered before deletion.
func (db *DB) DeleteRollingBefore(ctx context.Context, cutoff time.Time) (uint64, error) {
	var count uint64
	countQuery := fmt.Sprintf(`SELECT count() FROM "%s"."%s" WHERE as_of_date < ?`,
		db.Name, statsmodels.RollingAggregatesTableName)
	if err := db.QueryRow(ctx, countQuery, cutoff).Scan(&count); err != nil {
		return 0, fmt.Errorf("count expired rolling rows: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM "%s"."%s" WHERE as_of_date < ?`,
		db.Name, statsmodels.RollingAggregatesTableName)
	if err := db.Exec(ctx, query, cutoff); err != nil {
		return 0, fmt.Errorf("delete expired rolling rows: %w", err)
	}
	return count, nil
}
