package types

// DailyStatsWorkflowName is the registered name of the daily pipeline
// workflow, shared by the worker, the scheduler, and the trigger surface.
const DailyStatsWorkflowName = "DailyStatsWorkflow"

// RunInput parameterizes one daily pipeline run. RunDate is a YYYY-MM-DD
// override; empty means "yesterday relative to workflow time".
type RunInput struct {
	RunDate string `json:"run_date,omitempty"`
}

// IngestInput requests box scores for one stat date.
type IngestInput struct {
	StatDate string `json:"stat_date"`
}

// IngestOutput reports what ingestion accepted and what it skipped.
type IngestOutput struct {
	EventsIngested int     `json:"events_ingested"`
	EventsSkipped  int     `json:"events_skipped"`
	DurationMs     float64 `json:"duration_ms"`
}

// SeasonInput requests a season-to-date recompute.
type SeasonInput struct {
	StatDate string `json:"stat_date"`
	Season   uint16 `json:"season"`
}

// SeasonOutput reports the season recompute.
type SeasonOutput struct {
	PlayersUpdated int     `json:"players_updated"`
	DurationMs     float64 `json:"duration_ms"`
}

// RollingInput requests the trailing-window recompute as of a stat date.
type RollingInput struct {
	StatDate string `json:"stat_date"`
}

// RollingOutput reports the rolling recompute. Failed windows are carried as
// run errors rather than failing the stage.
type RollingOutput struct {
	SnapshotsWritten int        `json:"snapshots_written"`
	Errors           []RunError `json:"errors,omitempty"`
	DurationMs       float64    `json:"duration_ms"`
}

// ActiveInput requests the active-accrued replay as of a stat date.
type ActiveInput struct {
	StatDate string `json:"stat_date"`
}

// ActiveOutput reports the replay across all leagues.
type ActiveOutput struct {
	LeaguesProcessed int        `json:"leagues_processed"`
	RecordsUpdated   int        `json:"records_updated"`
	OverlapsDetected int        `json:"overlaps_detected"`
	Errors           []RunError `json:"errors,omitempty"`
	DurationMs       float64    `json:"duration_ms"`
}

// SyncInput requests the per-league store fan-out.
type SyncInput struct {
	StatDate string `json:"stat_date"`
}

// SyncOutput reports the fan-out. Per-league failures are carried as run
// errors; one torn tenant never blocks the rest.
type SyncOutput struct {
	LeaguesSynced int        `json:"leagues_synced"`
	RowsSynced    uint64     `json:"rows_synced"`
	Errors        []RunError `json:"errors,omitempty"`
	DurationMs    float64    `json:"duration_ms"`
}

// CleanupInput requests the rolling-snapshot retention pass.
type CleanupInput struct {
	StatDate string `json:"stat_date"`
}

// CleanupOutput reports the retention pass.
type CleanupOutput struct {
	RowsPurged uint64  `json:"rows_purged"`
	DurationMs float64 `json:"duration_ms"`
}

// RunError is one unit-scoped failure collected during a stage. The stage
// keeps going; the error surfaces in the run summary.
type RunError struct {
	Stage   string `json:"stage"`
	Unit    string `json:"unit"`
	Message string `json:"message"`
}

// RunSummary is the structured result of one pipeline run, persisted to run
// history and published for downstream consumers.
type RunSummary struct {
	RunDate          string     `json:"run_date"`
	Status           string     `json:"status"`
	RecordsUpdated   uint64     `json:"records_updated"`
	LeaguesProcessed uint32     `json:"leagues_processed"`
	Errors           []RunError `json:"errors,omitempty"`
	StartedAt        string     `json:"started_at"`
	FinishedAt       string     `json:"finished_at"`
	DurationMs       float64    `json:"duration_ms"`
}
