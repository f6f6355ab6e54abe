package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

func TestSyncTableConfigs(t *testing.T) {
	configs := SyncTableConfigs()
	require.Len(t, configs, 3)

	byTarget := make(map[string]SyncTableConfig, len(configs))
	for _, cfg := range configs {
		byTarget[cfg.TargetTable] = cfg
	}

	season, ok := byTarget[SeasonStatsTableName]
	require.True(t, ok)
	assert.Equal(t, statsmodels.SeasonAggregatesTableName, season.SourceTable)
	assert.Equal(t, "player_id", season.PlayerColumn)
	assert.False(t, season.LeagueScoped)
	assert.Equal(t, statsmodels.ColumnNames(statsmodels.SeasonAggregateColumns), season.Columns)

	rolling, ok := byTarget[RollingStatsTableName]
	require.True(t, ok)
	assert.Equal(t, statsmodels.RollingAggregatesTableName, rolling.SourceTable)
	assert.Equal(t, "player_id", rolling.PlayerColumn)
	assert.False(t, rolling.LeagueScoped)

	// Active-accrued rows carry a league_id, so the projection must be
	// scoped to this league's rows and keyed by the MLB player id.
	active, ok := byTarget[ActiveStatsTableName]
	require.True(t, ok)
	assert.Equal(t, statsmodels.ActiveAccruedTableName, active.SourceTable)
	assert.Equal(t, "mlb_player_id", active.PlayerColumn)
	assert.True(t, active.LeagueScoped)
	assert.Equal(t, statsmodels.ColumnNames(statsmodels.ActiveAccruedColumns), active.Columns)
}

func TestSyncColumnsMatchSchemas(t *testing.T) {
	// Both sides of the projection share the canonical column slices, so a
	// schema edit can never desynchronize the INSERT SELECT column lists.
	for _, cfg := range SyncTableConfigs() {
		assert.NotEmpty(t, cfg.Columns, cfg.TargetTable)
		assert.Equal(t, "updated_at", cfg.Columns[len(cfg.Columns)-1], cfg.TargetTable)
	}
}
