package canonical_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/dugoutlabs/statline/pkg/db/canonical"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// integrationContext skips unless CLICKHOUSE_TEST_ADDR points at a live
// server, then routes the store at it under a throwaway database name.
func integrationContext(t *testing.T) (context.Context, *zap.Logger) {
	t.Helper()
	addr := os.Getenv("CLICKHOUSE_TEST_ADDR")
	if addr == "" {
		t.Skip("CLICKHOUSE_TEST_ADDR not set, skipping store round-trip test")
	}
	t.Setenv("CLICKHOUSE_ADDR", addr)
	t.Setenv("STATS_CANONICAL_DB", "stats_canonical_it")
	return context.Background(), zaptest.NewLogger(t)
}

func TestCanonicalStoreRoundTrip(t *testing.T) {
	ctx, logger := integrationContext(t)

	db, err := canonical.New(ctx, logger)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, db.UpsertLeague(ctx, &statsmodels.League{
		LeagueID: 9001,
		Name:     "Round Trip",
	}))
	require.NoError(t, db.AddPoolPlayers(ctx, 9001, []string{"trout", "ohtani"}))

	effective := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.InsertRosterIntervals(ctx, []*statsmodels.RosterStatusInterval{
		{
			LeagueID:       9001,
			LeaguePlayerID: 1,
			MLBPlayerID:    "trout",
			TeamID:         10,
			Status:         statsmodels.StatusActive,
			EffectiveDate:  effective,
			CreatedAt:      time.Now().UTC(),
		},
	}))

	leagues, err := db.ListLeagues(ctx)
	require.NoError(t, err)
	var found bool
	for _, lg := range leagues {
		if lg.LeagueID == 9001 {
			found = true
			assert.Equal(t, "Round Trip", lg.Name)
		}
	}
	assert.True(t, found, "registered league missing from ListLeagues")

	intervals, err := db.ActiveIntervals(ctx, 9001)
	require.NoError(t, err)
	require.NotEmpty(t, intervals)
	assert.Equal(t, "trout", intervals[0].MLBPlayerID)

	earliest, err := db.EarliestActiveStart(ctx)
	require.NoError(t, err)
	require.False(t, earliest.IsZero())
	assert.False(t, earliest.After(effective))
}
