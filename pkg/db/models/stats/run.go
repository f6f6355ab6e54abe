package stats

import "time"

// RunHistoryTableName records one row per pipeline run.
const RunHistoryTableName = "run_history"

// Run statuses surfaced to the scheduling caller.
const (
	RunCompleted           = "completed"
	RunCompletedWithErrors = "completed_with_errors"
	RunAborted             = "aborted"
)

// RunRecord is the persisted structured summary of one daily run.
type RunRecord struct {
	RunDate          time.Time `ch:"run_date" json:"run_date"`
	Status           string    `ch:"status" json:"status"`
	RecordsUpdated   uint64    `ch:"records_updated" json:"records_updated"`
	LeaguesProcessed uint32    `ch:"leagues_processed" json:"leagues_processed"`
	ErrorCount       uint32    `ch:"error_count" json:"error_count"`
	Errors           string    `ch:"errors" json:"errors"` // JSON array of per-unit errors
	StartedAt        time.Time `ch:"started_at" json:"started_at"`
	FinishedAt       time.Time `ch:"finished_at" json:"finished_at"`
	DurationMs       float64   `ch:"duration_ms" json:"duration_ms"`
}

// RunHistoryColumns is the schema for run_history.
var RunHistoryColumns = []ColumnDef{
	{Name: "run_date", Type: "Date"},
	{Name: "status", Type: "LowCardinality(String)"},
	{Name: "records_updated", Type: "UInt64"},
	{Name: "leagues_processed", Type: "UInt32"},
	{Name: "error_count", Type: "UInt32"},
	{Name: "errors", Type: "String", Codec: "ZSTD(1)"},
	{Name: "started_at", Type: "DateTime64(6)"},
	{Name: "finished_at", Type: "DateTime64(6)"},
	{Name: "duration_ms", Type: "Float64"},
}
