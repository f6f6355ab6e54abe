package league

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dugoutlabs/statline/pkg/db/clickhouse"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// Tenant-side table names. Schemas mirror the canonical aggregate tables
// column for column so the synchronizer can project with INSERT SELECT.
const (
	SeasonStatsTableName  = "season_stats"
	RollingStatsTableName = "rolling_stats"
	ActiveStatsTableName  = "active_stats"
)

// DB is one league's private statistics database. It implements Store.
type DB struct {
	clickhouse.Client
	Name     string
	LeagueID uint64
}

// New creates the league database handle and ensures its schema exists.
func New(ctx context.Context, logger *zap.Logger, leagueID uint64) (*DB, error) {
	dbName := clickhouse.SanitizeName(fmt.Sprintf("league_%d", leagueID))

	client, err := clickhouse.New(ctx, logger.With(
		zap.String("db", dbName),
		zap.String("component", "league"),
		zap.Uint64("league_id", leagueID),
	), dbName, clickhouse.PoolConfigForComponent("league"))
	if err != nil {
		return nil, err
	}

	db := &DB{Client: client, Name: dbName, LeagueID: leagueID}
	if err := db.InitializeDB(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// NewWithSharedClient creates a league DB handle that reuses an existing
// connection pool. The database and tables must already exist.
func NewWithSharedClient(client clickhouse.Client, leagueID uint64) *DB {
	dbName := clickhouse.SanitizeName(fmt.Sprintf("league_%d", leagueID))
	return &DB{Client: client, Name: dbName, LeagueID: leagueID}
}

// InitializeDB ensures the league database and its three stat tables exist.
func (db *DB) InitializeDB(ctx context.Context) error {
	if err := db.CreateDbIfNotExists(ctx, db.Name); err != nil {
		return fmt.Errorf("create database %s: %w", db.Name, err)
	}

	initOps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{SeasonStatsTableName, db.initSeasonStats},
		{RollingStatsTableName, db.initRollingStats},
		{ActiveStatsTableName, db.initActiveStats},
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

	db.Logger.Debug("league database initialized", zap.String("database", db.Name))
	return nil
}

func (db *DB) initSeasonStats(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		ORDER BY (player_id, season)
	`, db.Name, SeasonStatsTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.SeasonAggregateColumns),
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"))
	return db.Exec(ctx, query)
}

func (db *DB) initRollingStats(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		ORDER BY (player_id, period_label, as_of_date)
	`, db.Name, RollingStatsTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.RollingAggregateColumns),
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"))
	return db.Exec(ctx, query)
}

func (db *DB) initActiveStats(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = %s
		ORDER BY (mlb_player_id, team_id)
	`, db.Name, ActiveStatsTableName,
		statsmodels.ColumnsToSchemaSQL(statsmodels.ActiveAccruedColumns),
		clickhouse.Engine(clickhouse.ReplacingMergeTree, "updated_at"))
	return db.Exec(ctx, query)
}

// DatabaseName returns the ClickHouse database backing this league store.
func (db *DB) DatabaseName() string {
	return db.Name
}

// LeagueKey returns the identifier associated with this league store.
func (db *DB) LeagueKey() uint64 {
	return db.LeagueID
}

// Close terminates the underlying ClickHouse connection.
func (db *DB) Close() error {
	return db.Db.Close()
}
