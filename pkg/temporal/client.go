package temporal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"

	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/retry"
	"github.com/dugoutlabs/statline/pkg/utils"
)

// Client wraps the Temporal client together with the queue, schedule, and
// workflow identifiers the aggregation pipeline uses.
type Client struct {
	TClient   client.Client
	TSClient  client.ScheduleClient
	Namespace string

	// Task queues
	StatsQueue string // stats - daily aggregation runs and manual triggers share it.

	// Schedule IDs
	DailyScheduleID string

	// Workflow ID templates
	RunWorkflowIDPattern string // "stats:<run date>"
}

// NewClient connects to Temporal (TEMPORAL_HOSTPORT, TEMPORAL_NAMESPACE)
// with retry/backoff and verifies the connection.
func NewClient(ctx context.Context, logger *zap.Logger) (*Client, error) {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	host := utils.Env("TEMPORAL_HOSTPORT", "localhost:7233")
	ns := utils.Env("TEMPORAL_NAMESPACE", "statline")
	loggerWrapper := NewZapAdapter(logger)

	logger.Info("connecting to temporal", zap.String("host", host), zap.String("namespace", ns))

	var tClient client.Client
	err := retry.WithBackoff(connCtx, retry.DefaultConfig(), logger, "temporal_connection", func() error {
		var err error
		tClient, err = Dial(connCtx, host, ns, loggerWrapper)
		if err != nil {
			return err
		}
		if _, err = tClient.CheckHealth(connCtx, nil); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		TClient:   tClient,
		TSClient:  tClient.ScheduleClient(),
		Namespace: ns,

		StatsQueue:           "stats",
		DailyScheduleID:      "daily-stats",
		RunWorkflowIDPattern: "stats:%s",
	}, nil
}

// Dial connects to Temporal using the provided hostPort and namespace.
func Dial(ctx context.Context, hostPort, namespace string, logger log.Logger) (client.Client, error) {
	return client.DialContext(
		ctx,
		client.Options{
			HostPort:  hostPort,
			Namespace: namespace,
			Logger:    logger,
		},
	)
}

// GetStatsQueue returns the task queue the pipeline worker polls.
func (c *Client) GetStatsQueue() string { return c.StatsQueue }

// GetRunWorkflowID returns the workflow ID for the run of the given date.
// Date-keyed IDs make reruns of the same day idempotent at the Temporal
// layer: a second trigger while one is in flight is rejected.
func (c *Client) GetRunWorkflowID(runDate string) string {
	return fmt.Sprintf(c.RunWorkflowIDPattern, runDate)
}

// EnsureDailySchedule creates the daily pipeline schedule if it does not
// already exist. The cron spec comes from STATS_SCHEDULE_CRON (default
// 06:00 UTC, after west-coast games finalize).
func (c *Client) EnsureDailySchedule(ctx context.Context, logger *zap.Logger) error {
	cronSpec := utils.Env("STATS_SCHEDULE_CRON", "0 6 * * *")

	h := c.TSClient.GetHandle(ctx, c.DailyScheduleID)
	if _, err := h.Describe(ctx); err == nil {
		logger.Info("daily stats schedule already exists",
			zap.String("id", c.DailyScheduleID),
			zap.String("namespace", c.Namespace))
		return nil
	} else {
		var notFound *serviceerror.NotFound
		if !errors.As(err, &notFound) {
			return err
		}
	}

	logger.Info("creating daily stats schedule",
		zap.String("id", c.DailyScheduleID),
		zap.String("cron", cronSpec),
		zap.String("namespace", c.Namespace))

	_, err := c.TSClient.Create(ctx, client.ScheduleOptions{
		ID: c.DailyScheduleID,
		Spec: client.ScheduleSpec{
			CronExpressions: []string{cronSpec},
		},
		Action: &client.ScheduleWorkflowAction{
			Workflow:                 types.DailyStatsWorkflowName,
			Args:                     []interface{}{types.RunInput{}},
			TaskQueue:                c.StatsQueue,
			WorkflowExecutionTimeout: 2 * time.Hour,
			WorkflowTaskTimeout:      2 * time.Minute,
		},
		// A run in flight wins over a newly scheduled one.
		Overlap: enums.SCHEDULE_OVERLAP_POLICY_SKIP,
	})
	return err
}

// TriggerRun starts the daily pipeline workflow for the given input,
// returning the workflow run ID. The date-keyed workflow ID rejects a
// duplicate trigger while a run for the same date is still executing.
func (c *Client) TriggerRun(ctx context.Context, input types.RunInput) (string, error) {
	runDate := input.RunDate
	if runDate == "" {
		runDate = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	}

	run, err := c.TClient.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                       c.GetRunWorkflowID(runDate),
		TaskQueue:                c.StatsQueue,
		WorkflowExecutionTimeout: 2 * time.Hour,
	}, types.DailyStatsWorkflowName, input)
	if err != nil {
		return "", err
	}
	return run.GetRunID(), nil
}

// Close closes the underlying Temporal connection.
func (c *Client) Close() {
	c.TClient.Close()
}
