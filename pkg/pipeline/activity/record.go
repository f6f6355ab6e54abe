package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/retry"
)

// RecordRunSummary persists the structured run summary to run history and
// publishes it for downstream consumers. The publish is best effort; only a
// failed persist fails the activity.
func (c *Context) RecordRunSummary(ctx context.Context, summary types.RunSummary) error {
	runDate, err := time.Parse("2006-01-02", summary.RunDate)
	if err != nil {
		return fmt.Errorf("invalid run date %q: %w", summary.RunDate, err)
	}

	errsJSON := "[]"
	if len(summary.Errors) > 0 {
		b, err := json.Marshal(summary.Errors)
		if err != nil {
			return fmt.Errorf("encode run errors: %w", err)
		}
		errsJSON = string(b)
	}

	startedAt, _ := time.Parse(time.RFC3339Nano, summary.StartedAt)
	finishedAt, _ := time.Parse(time.RFC3339Nano, summary.FinishedAt)

	rec := &statsmodels.RunRecord{
		RunDate:          runDate,
		Status:           summary.Status,
		RecordsUpdated:   summary.RecordsUpdated,
		LeaguesProcessed: summary.LeaguesProcessed,
		ErrorCount:       uint32(len(summary.Errors)),
		Errors:           errsJSON,
		StartedAt:        startedAt,
		FinishedAt:       finishedAt,
		DurationMs:       summary.DurationMs,
	}

	err = retry.WithBackoff(ctx, retry.Once(), c.Logger, "record_run", func() error {
		return c.CanonicalDB.RecordRun(ctx, rec)
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	if c.RedisClient != nil {
		c.RedisClient.PublishRunSummary(ctx, &summary)
	}

	c.Logger.Info("run summary recorded",
		zap.String("run_date", summary.RunDate),
		zap.String("status", summary.Status),
		zap.Uint64("records_updated", summary.RecordsUpdated),
		zap.Uint32("leagues_processed", summary.LeaguesProcessed),
		zap.Int("errors", len(summary.Errors)))
	return nil
}
