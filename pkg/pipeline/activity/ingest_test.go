package activity_test

import (
	"testing"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
	"go.uber.org/zap/zaptest"

	leaguestore "github.com/dugoutlabs/statline/pkg/db/league"
	"github.com/dugoutlabs/statline/pkg/feed"
	"github.com/dugoutlabs/statline/pkg/pipeline/activity"
	"github.com/dugoutlabs/statline/pkg/pipeline/types"
)

func newTestContext(t *testing.T, store *fakeCanonicalStore, provider *fakeFeed) *activity.Context {
	t.Helper()
	return &activity.Context{
		Logger:         zaptest.NewLogger(t),
		CanonicalDB:    store,
		LeagueDBs:      xsync.NewMap[uint64, leaguestore.Store](),
		Feed:           provider,
		MaxParallelism: 2,
	}
}

func TestIngestGameEvents_SkipsMalformedLines(t *testing.T) {
	store := &fakeCanonicalStore{}
	provider := &fakeFeed{lines: []feed.PlayerLine{
		{PlayerID: "trout", GameDate: "2025-06-15", Team: "LAA", Opponent: "SEA", HomeAway: "home", AtBats: 4, Hits: 2, HomeRuns: 1},
		{PlayerID: "", GameDate: "2025-06-15", HomeAway: "home"},                                          // no player
		{PlayerID: "ohtani", GameDate: "not-a-date", HomeAway: "home"},                                    // bad date
		{PlayerID: "judge", GameDate: "2025-06-14", HomeAway: "away"},                                     // wrong date
		{PlayerID: "betts", GameDate: "2025-06-15", HomeAway: "neither"},                                  // bad venue
		{PlayerID: "soto", GameDate: "2025-06-15", HomeAway: "away", AtBats: 3, Hits: 4},                  // hits > AB
		{PlayerID: "alonso", GameDate: "2025-06-15", HomeAway: "away", AtBats: 4, Hits: 1, HomeRuns: 2},   // XBH > hits
	}}

	ac := newTestContext(t, store, provider)

	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()
	env.RegisterActivity(ac.IngestGameEvents)

	future, err := env.ExecuteActivity(ac.IngestGameEvents, types.IngestInput{StatDate: "2025-06-15"})
	require.NoError(t, err)

	var out types.IngestOutput
	require.NoError(t, future.Get(&out))

	assert.Equal(t, 1, out.EventsIngested)
	assert.Equal(t, 6, out.EventsSkipped)
	require.Len(t, store.events, 1)
	assert.Equal(t, "trout", store.events[0].PlayerID)
}

func TestIngestGameEvents_QualityStartFlag(t *testing.T) {
	store := &fakeCanonicalStore{}
	provider := &fakeFeed{lines: []feed.PlayerLine{
		// 7 IP, 2 ER as the starter: quality start.
		{PlayerID: "webb", GameDate: "2025-06-15", HomeAway: "home", OutsPitched: 21, EarnedRuns: 2, WasStartingPitcher: true},
		// 6 IP, 4 ER as the starter: too many earned runs.
		{PlayerID: "gray", GameDate: "2025-06-15", HomeAway: "away", OutsPitched: 18, EarnedRuns: 4, WasStartingPitcher: true},
		// 6 scoreless innings in relief: not a start, never a quality start.
		{PlayerID: "longrelief", GameDate: "2025-06-15", HomeAway: "home", OutsPitched: 18, EarnedRuns: 0},
	}}

	ac := newTestContext(t, store, provider)

	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()
	env.RegisterActivity(ac.IngestGameEvents)

	future, err := env.ExecuteActivity(ac.IngestGameEvents, types.IngestInput{StatDate: "2025-06-15"})
	require.NoError(t, err)

	var out types.IngestOutput
	require.NoError(t, future.Get(&out))
	require.Equal(t, 3, out.EventsIngested)

	byPlayer := map[string]bool{}
	for _, ev := range store.events {
		byPlayer[ev.PlayerID] = ev.IsQualityStart
	}
	assert.True(t, byPlayer["webb"])
	assert.False(t, byPlayer["gray"])
	assert.False(t, byPlayer["longrelief"])
}
