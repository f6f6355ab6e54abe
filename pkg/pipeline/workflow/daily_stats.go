package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
	"github.com/dugoutlabs/statline/pkg/pipeline/types"
)

// DailyStatsWorkflow runs the staged nightly pipeline: ingest box scores,
// recompute season, rolling, and active-accrued aggregates, fan the results
// out to the league stores, purge expired snapshots, and record the run.
// Stages run strictly in order; a stage failure aborts the run after the
// abort summary is recorded. Unit failures inside a stage (one league, one
// window) do not fail the stage, they surface in the summary instead.
func (wc *Context) DailyStatsWorkflow(ctx workflow.Context, in types.RunInput) (*types.RunSummary, error) {
	startedAt := workflow.Now(ctx).UTC()

	// Default run date is yesterday: the nightly schedule fires after
	// midnight UTC, once the previous day's games have finalized.
	runDate := in.RunDate
	if runDate == "" {
		runDate = startedAt.AddDate(0, 0, -1).Format("2006-01-02")
	}
	statDay, err := time.Parse("2006-01-02", runDate)
	if err != nil {
		return nil, temporal.NewApplicationError("invalid run date", "bad_run_date", err)
	}
	season := uint16(statDay.Year())

	logger := workflow.GetLogger(ctx)
	logger.Info("starting daily stats run", "run_date", runDate, "season", season)

	info := workflow.GetInfo(ctx)
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
		TaskQueue: info.TaskQueueName,
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	summary := &types.RunSummary{
		RunDate:   runDate,
		StartedAt: startedAt.Format(time.RFC3339Nano),
	}

	ac := wc.ActivityContext

	// 1. Ingest the day's box scores.
	var ingestOut types.IngestOutput
	if err := workflow.ExecuteActivity(ctx, ac.IngestGameEvents, types.IngestInput{StatDate: runDate}).Get(ctx, &ingestOut); err != nil {
		return wc.abort(ctx, summary, "ingest", err)
	}

	// 2. Season-to-date recompute.
	var seasonOut types.SeasonOutput
	if err := workflow.ExecuteActivity(ctx, ac.ComputeSeasonAggregates, types.SeasonInput{StatDate: runDate, Season: season}).Get(ctx, &seasonOut); err != nil {
		return wc.abort(ctx, summary, "season", err)
	}
	summary.RecordsUpdated += uint64(seasonOut.PlayersUpdated)

	// 3. Rolling windows.
	var rollingOut types.RollingOutput
	if err := workflow.ExecuteActivity(ctx, ac.ComputeRollingAggregates, types.RollingInput{StatDate: runDate}).Get(ctx, &rollingOut); err != nil {
		return wc.abort(ctx, summary, "rolling", err)
	}
	summary.RecordsUpdated += uint64(rollingOut.SnapshotsWritten)
	summary.Errors = append(summary.Errors, rollingOut.Errors...)

	// 4. Active-accrued replay.
	var activeOut types.ActiveOutput
	if err := workflow.ExecuteActivity(ctx, ac.ComputeActiveAccrued, types.ActiveInput{StatDate: runDate}).Get(ctx, &activeOut); err != nil {
		return wc.abort(ctx, summary, "active_accrued", err)
	}
	summary.RecordsUpdated += uint64(activeOut.RecordsUpdated)
	summary.LeaguesProcessed = uint32(activeOut.LeaguesProcessed)
	summary.Errors = append(summary.Errors, activeOut.Errors...)

	// 5. Fan out to the league stores.
	var syncOut types.SyncOutput
	if err := workflow.ExecuteActivity(ctx, ac.SyncLeagueStores, types.SyncInput{StatDate: runDate}).Get(ctx, &syncOut); err != nil {
		return wc.abort(ctx, summary, "sync", err)
	}
	summary.RecordsUpdated += syncOut.RowsSynced
	summary.Errors = append(summary.Errors, syncOut.Errors...)

	// 6. Retention.
	var cleanupOut types.CleanupOutput
	if err := workflow.ExecuteActivity(ctx, ac.CleanupRollingAggregates, types.CleanupInput{StatDate: runDate}).Get(ctx, &cleanupOut); err != nil {
		return wc.abort(ctx, summary, "cleanup", err)
	}

	finishedAt := workflow.Now(ctx).UTC()
	summary.FinishedAt = finishedAt.Format(time.RFC3339Nano)
	summary.DurationMs = float64(finishedAt.Sub(startedAt).Milliseconds())
	summary.Status = statsmodels.RunCompleted
	if len(summary.Errors) > 0 {
		summary.Status = statsmodels.RunCompletedWithErrors
	}

	// 7. Record and publish.
	if err := workflow.ExecuteActivity(ctx, ac.RecordRunSummary, *summary).Get(ctx, nil); err != nil {
		return nil, err
	}

	logger.Info("daily stats run finished",
		"run_date", runDate,
		"status", summary.Status,
		"records_updated", summary.RecordsUpdated,
		"errors", len(summary.Errors))
	return summary, nil
}

// abort finalizes the summary as aborted, records it best effort, and
// returns the stage error. The aborted summary keeps the partial counts so
// operators can see how far the run got.
func (wc *Context) abort(ctx workflow.Context, summary *types.RunSummary, stage string, stageErr error) (*types.RunSummary, error) {
	finishedAt := workflow.Now(ctx).UTC()
	startedAt, _ := time.Parse(time.RFC3339Nano, summary.StartedAt)

	summary.Status = statsmodels.RunAborted
	summary.FinishedAt = finishedAt.Format(time.RFC3339Nano)
	summary.DurationMs = float64(finishedAt.Sub(startedAt).Milliseconds())
	summary.Errors = append(summary.Errors, types.RunError{
		Stage:   stage,
		Unit:    "stage",
		Message: stageErr.Error(),
	})

	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.RecordRunSummary, *summary).Get(ctx, nil); err != nil {
		workflow.GetLogger(ctx).Error("failed to record aborted run", "error", err)
	}
	return nil, stageErr
}
