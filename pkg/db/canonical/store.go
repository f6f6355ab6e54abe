package canonical

import (
	"context"
	"time"

	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// Store is the canonical-store surface the pipeline activities depend on.
// *DB implements it; the activity tests substitute fakes.
type Store interface {
	// Box scores.
	InsertGameEvents(ctx context.Context, events []*statsmodels.GameEvent) error
	GameEventsForSeason(ctx context.Context, season uint16) ([]*statsmodels.GameEvent, error)
	GameEventsInRange(ctx context.Context, from, to time.Time) ([]*statsmodels.GameEvent, error)

	// Roster interval stream (read-only; owned by the transaction subsystem).
	ActiveIntervals(ctx context.Context, leagueID uint64) ([]*statsmodels.RosterStatusInterval, error)
	EarliestActiveStart(ctx context.Context) (time.Time, error)

	// Tenant registry.
	ListLeagues(ctx context.Context) ([]*statsmodels.League, error)

	// Aggregate writers.
	UpsertSeasonAggregates(ctx context.Context, rows []*statsmodels.SeasonAggregate) error
	UpsertRollingAggregates(ctx context.Context, rows []*statsmodels.RollingAggregate) error
	UpsertActiveAccrued(ctx context.Context, rows []*statsmodels.ActiveAccruedAggregate) error
	DeleteRollingBefore(ctx context.Context, cutoff time.Time) (uint64, error)

	// Run bookkeeping.
	RecordRun(ctx context.Context, rec *statsmodels.RunRecord) error
	LatestRun(ctx context.Context) (*statsmodels.RunRecord, error)

	DatabaseName() string
	Close() error
}

var _ Store = (*DB)(nil)
