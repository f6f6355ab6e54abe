package aggregator

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"go.temporal.io/sdk/worker"
	temporalworkflow "go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/dugoutlabs/statline/pkg/db/canonical"
	leaguestore "github.com/dugoutlabs/statline/pkg/db/league"
	"github.com/dugoutlabs/statline/pkg/feed"
	"github.com/dugoutlabs/statline/pkg/logging"
	"github.com/dugoutlabs/statline/pkg/pipeline/activity"
	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/pipeline/workflow"
	"github.com/dugoutlabs/statline/pkg/redis"
	"github.com/dugoutlabs/statline/pkg/temporal"
)

// App is the aggregation worker: it hosts the daily pipeline workflow and
// its activities on the stats queue and owns the daily schedule.
type App struct {
	Worker         worker.Worker
	TemporalClient *temporal.Client
	Logger         *zap.Logger
}

// Start starts the worker and blocks until the context is canceled.
func (a *App) Start(ctx context.Context) {
	if err := a.Worker.Start(); err != nil {
		a.Logger.Fatal("unable to start worker", zap.Error(err))
	}
	<-ctx.Done()
	a.Stop()
}

// Stop stops the worker.
func (a *App) Stop() {
	a.Worker.Stop()
	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("aggregator stopped")
}

// Initialize wires the worker: canonical store, provider client, Temporal
// connection, workflow and activity registration, and the daily schedule.
func Initialize(ctx context.Context) *App {
	logger, err := logging.New()
	if err != nil {
		panic(err)
	}

	canonicalDB, err := canonical.New(ctx, logger)
	if err != nil {
		logger.Fatal("unable to initialize canonical store", zap.Error(err))
	}

	temporalClient, err := temporal.NewClient(ctx, logger)
	if err != nil {
		logger.Fatal("unable to establish temporal connection", zap.Error(err))
	}

	// Redis is optional: without it run summaries are only persisted, not
	// published.
	redisClient, err := redis.NewClient(ctx, logger)
	if err != nil {
		logger.Warn("redis unavailable, run summaries will not be published", zap.Error(err))
		redisClient = nil
	}

	activityContext := &activity.Context{
		Logger:         logger,
		CanonicalDB:    canonicalDB,
		LeagueDBs:      xsync.NewMap[uint64, leaguestore.Store](),
		Feed:           feed.NewFromEnv(),
		TemporalClient: temporalClient,
		RedisClient:    redisClient,
	}
	workflowContext := workflow.Context{
		TemporalClient:  temporalClient,
		ActivityContext: activityContext,
	}

	wkr := worker.New(
		temporalClient.TClient,
		temporalClient.GetStatsQueue(),
		worker.Options{
			// One nightly run with bounded fan-out inside activities; modest
			// executor limits are plenty.
			MaxConcurrentWorkflowTaskExecutionSize: 10,
			MaxConcurrentActivityExecutionSize:     50,
			WorkerStopTimeout:                      1 * time.Minute,
		},
	)

	wkr.RegisterWorkflowWithOptions(
		workflowContext.DailyStatsWorkflow,
		temporalworkflow.RegisterOptions{
			Name: types.DailyStatsWorkflowName,
		},
	)
	wkr.RegisterActivity(activityContext.IngestGameEvents)
	wkr.RegisterActivity(activityContext.ComputeSeasonAggregates)
	wkr.RegisterActivity(activityContext.ComputeRollingAggregates)
	wkr.RegisterActivity(activityContext.ComputeActiveAccrued)
	wkr.RegisterActivity(activityContext.SyncLeagueStores)
	wkr.RegisterActivity(activityContext.CleanupRollingAggregates)
	wkr.RegisterActivity(activityContext.RecordRunSummary)

	if err := temporalClient.EnsureDailySchedule(ctx, logger); err != nil {
		logger.Fatal("unable to ensure daily schedule", zap.Error(err))
	}

	return &App{
		Worker:         wkr,
		TemporalClient: temporalClient,
		Logger:         logger,
	}
}
