package canonical

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dugoutlabs/statline/pkg/db/clickhouse"
	"github.com/dugoutlabs/statline/pkg/utils"
)

// DB is the canonical statistics store: the single source of truth every
// league database is projected from. It implements Store.
type DB struct {
	clickhouse.Client
	Name string
}

// New connects to the canonical database (STATS_CANONICAL_DB, default
// "stats_canonical") and ensures its schema exists.
func New(ctx context.Context, logger *zap.Logger) (*DB, error) {
	dbName := clickhouse.SanitizeName(utils.Env("STATS_CANONICAL_DB", "stats_canonical"))

	client, err := clickhouse.New(ctx, logger.With(
		zap.String("db", dbName),
		zap.String("component", "canonical"),
	), dbName, clickhouse.PoolConfigForComponent("canonical"))
	if err != nil {
		return nil, err
	}

	db := &DB{Client: client, Name: dbName}
	if err := db.InitializeDB(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// InitializeDB ensures the canonical database and all of its tables exist.
// Table creation is issued in parallel; each statement is IF NOT EXISTS so
// initialization is idempotent across worker restarts.
func (db *DB) InitializeDB(ctx context.Context) error {
	initStart := time.Now()

	if err := db.CreateDbIfNotExists(ctx, db.Name); err != nil {
		return fmt.Errorf("create database %s: %w", db.Name, err)
	}

	initOps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"game_events", db.initGameEvents},
		{"roster_status_intervals", db.initRosterIntervals},
		{"leagues", db.initLeagues},
		{"league_player_pool", db.initLeaguePlayerPool},
		{"season_aggregates", db.initSeasonAggregates},
		{"rolling_aggregates", db.initRollingAggregates},
		{"active_accrued_aggregates", db.initActiveAccrued},
		{"run_history", db.initRunHistory},
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(initOps))

	for _, op := range initOps {
		wg.Add(1)
		go func(name string, fn func(context.Context) error) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				errChan <- fmt.Errorf("init %s: %w", name, err)
			}
		}(op.name, op.fn)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		return err
	}

	db.Logger.Info("canonical database initialized",
		zap.String("database", db.Name),
		zap.Duration("duration", time.Since(initStart)))
	return nil
}

// DatabaseName returns the ClickHouse database backing the canonical store.
func (db *DB) DatabaseName() string {
	return db.Name
}

// Close terminates the underlying ClickHouse connection.
func (db *DB) Close() error {
	return db.Db.Close()
}
