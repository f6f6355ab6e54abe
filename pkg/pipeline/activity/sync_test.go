package activity_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	leaguestore "github.com/dugoutlabs/statline/pkg/db/league"
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
	"github.com/dugoutlabs/statline/pkg/pipeline/types"
)

func TestSyncLeagueStores_IndependentTenants(t *testing.T) {
	store := &fakeCanonicalStore{
		leagues: []*statsmodels.League{
			{LeagueID: 1, Name: "Main"},
			{LeagueID: 2, Name: "Broken"},
			{LeagueID: 3, Name: "Paused", Paused: 1},
		},
	}

	healthy := &fakeLeagueStore{leagueID: 1, rows: 120}
	broken := &fakeLeagueStore{leagueID: 2, syncErr: errors.New("connection refused")}
	paused := &fakeLeagueStore{leagueID: 3, rows: 999}

	ac := newTestContext(t, store, &fakeFeed{})
	ac.LeagueDBs.Store(uint64(1), leaguestore.Store(healthy))
	ac.LeagueDBs.Store(uint64(2), leaguestore.Store(broken))
	ac.LeagueDBs.Store(uint64(3), leaguestore.Store(paused))

	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()
	env.RegisterActivity(ac.SyncLeagueStores)

	future, err := env.ExecuteActivity(ac.SyncLeagueStores, types.SyncInput{StatDate: "2025-06-15"})
	require.NoError(t, err)

	var out types.SyncOutput
	require.NoError(t, future.Get(&out))

	assert.Equal(t, 1, out.LeaguesSynced)
	assert.Equal(t, uint64(120), out.RowsSynced)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "sync", out.Errors[0].Stage)
	assert.Equal(t, "2", out.Errors[0].Unit)

	// The failing tenant was retried once before giving up.
	assert.Equal(t, 2, broken.syncCalls)
	assert.Equal(t, 1, healthy.syncCalls)
	// Paused leagues never sync.
	assert.Equal(t, 0, paused.syncCalls)
}

func TestRecordRunSummary_PersistsErrors(t *testing.T) {
	store := &fakeCanonicalStore{}

	ac := newTestContext(t, store, &fakeFeed{})

	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()
	env.RegisterActivity(ac.RecordRunSummary)

	summary := types.RunSummary{
		RunDate:          "2025-06-15",
		Status:           statsmodels.RunCompletedWithErrors,
		RecordsUpdated:   321,
		LeaguesProcessed: 7,
		Errors: []types.RunError{
			{Stage: "sync", Unit: "2", Message: "connection refused"},
		},
		StartedAt:  "2025-06-16T06:00:00Z",
		FinishedAt: "2025-06-16T06:04:30Z",
		DurationMs: 270000,
	}

	_, err := env.ExecuteActivity(ac.RecordRunSummary, summary)
	require.NoError(t, err)

	require.Len(t, store.runs, 1)
	rec := store.runs[0]
	assert.Equal(t, statsmodels.RunCompletedWithErrors, rec.Status)
	assert.Equal(t, uint64(321), rec.RecordsUpdated)
	assert.Equal(t, uint32(7), rec.LeaguesProcessed)
	assert.Equal(t, uint32(1), rec.ErrorCount)

	var stored []types.RunError
	require.NoError(t, json.Unmarshal([]byte(rec.Errors), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "connection refused", stored[0].Message)
}
