package league_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dugoutlabs/statline/pkg/db/canonical"
	"github.com/dugoutlabs/statline/pkg/db/league"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
	"github.com/dugoutlabs/statline/pkg/stats"
)

func TestSyncFromCanonicalProjectsPool(t *testing.T) {
	addr := os.Getenv("CLICKHOUSE_TEST_ADDR")
	if addr == "" {
		t.Skip("CLICKHOUSE_TEST_ADDR not set, skipping sync round-trip test")
	}
	t.Setenv("CLICKHOUSE_ADDR", addr)
	t.Setenv("STATS_CANONICAL_DB", "stats_canonical_it")

	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	const leagueID = 9002

	canonicalDB, err := canonical.New(ctx, logger)
	require.NoError(t, err)
	defer func() { _ = canonicalDB.Close() }()

	require.NoError(t, canonicalDB.UpsertLeague(ctx, &statsmodels.League{
		LeagueID: leagueID,
		Name:     "Sync Round Trip",
	}))
	require.NoError(t, canonicalDB.AddPoolPlayers(ctx, leagueID, []string{"trout"}))
	require.NoError(t, canonicalDB.UpsertSeasonAggregates(ctx, []*statsmodels.SeasonAggregate{
		{
			PlayerID:  "trout",
			Season:    2025,
			Counting:  stats.Counting{Games: 10, AtBats: 40, Hits: 12},
			UpdatedAt: time.Now().UTC(),
		},
		{
			// Not in the pool, must not project.
			PlayerID:  "benchwarmer",
			Season:    2025,
			Counting:  stats.Counting{Games: 3, AtBats: 9, Hits: 1},
			UpdatedAt: time.Now().UTC(),
		},
	}))

	// Initialize the tenant schema once, then sync through a handle that
	// shares the canonical connection pool.
	tenant, err := league.New(ctx, logger, leagueID)
	require.NoError(t, err)
	defer func() { _ = tenant.Close() }()

	shared := league.NewWithSharedClient(canonicalDB.Client, leagueID)
	rows, err := shared.SyncFromCanonical(ctx, canonicalDB.DatabaseName())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rows)

	var count uint64
	countQuery := fmt.Sprintf(`SELECT count() FROM "%s"."%s" WHERE player_id = 'benchwarmer'`,
		shared.DatabaseName(), league.SeasonStatsTableName)
	require.NoError(t, shared.QueryRow(ctx, countQuery).Scan(&count))
	assert.Zero(t, count, "out-of-pool player leaked into the tenant store")

	countQuery = fmt.Sprintf(`SELECT count() FROM "%s"."%s" WHERE player_id = 'trout'`,
		shared.DatabaseName(), league.SeasonStatsTableName)
	require.NoError(t, shared.QueryRow(ctx, countQuery).Scan(&count))
	assert.Equal(t, uint64(1), count)
}
