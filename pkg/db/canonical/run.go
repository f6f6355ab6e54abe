package canonical

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/dugoutlabs/statline/pkg/db/clickhouse"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// initRunHistory creates the run bookkeeping table. One row per run; reruns
// of the same run date replace the prior summary.
func (db *DB) initRunHistory(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		ORDER BY run_date
	`, db.Name, statsmodels.RunHistoryTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.RunHistoryColumns),
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "finished_at"))
	return db.Exec(ctx, query)
}

// RecordRun persists one run summary.
func (db *DB) RecordRun(ctx context.Context, rec *statsmodels.RunRecord) error {
	query := fmt.Sprintf(
		`INSERT INTO "%s"."%s" (run_date, status, records_updated, leagues_processed, error_count, errors, started_at, finished_at, duration_ms) VALUES`,
		db.Name, statsmodels.RunHistoryTableName,
	)
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	err = batch.Append(
		rec.RunDate, rec.Status, rec.RecordsUpdated, rec.LeaguesProcessed,
		rec.ErrorCount, rec.Errors, rec.StartedAt, rec.FinishedAt, rec.DurationMs,
	)
	if err != nil {
		return err
	}
	return batch.Send()
}

// LatestRun returns the most recently finished run summary, or nil when no
// run has completed yet.
func (db *DB) LatestRun(ctx context.Context) (*statsmodels.RunRecord, error) {
	var rec statsmodels.RunRecord
	query := fmt.Sprintf(`
		SELECT * FROM "%s"."%s" FINAL
		ORDER BY finished_at DESC
		LIMIT 1
	`, db.Name, statsmodels.RunHistoryTableName)

	if err := db.QueryRow(ctx, query).ScanStruct(&rec); err != nil {
		if clickhouse.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan latest run: %w", err)
	}
	return &rec, nil
}
