package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func activeInterval(player string, team uint64, start time.Time, end *time.Time) *statsmodels.RosterStatusInterval {
	return &statsmodels.RosterStatusInterval{
		LeagueID:      1,
		MLBPlayerID:   player,
		TeamID:        team,
		Status:        statsmodels.StatusActive,
		EffectiveDate: start,
		EndDate:       end,
	}
}

func TestArena_DisjointIntervals(t *testing.T) {
	// Active days 1-10, benched 11-15, active again 16-20.
	asOf := date(2026, 6, 30)
	intervals := []*statsmodels.RosterStatusInterval{
		activeInterval("p1", 7, date(2026, 6, 1), datePtr(2026, 6, 10)),
		activeInterval("p1", 7, date(2026, 6, 16), datePtr(2026, 6, 20)),
	}

	arena := NewArena(intervals, asOf)
	key := PlayerTeamKey{MLBPlayerID: "p1", TeamID: 7}

	require.Len(t, arena.Keys(), 1)
	assert.Equal(t, uint32(15), arena.ActiveDays(key))
	assert.Equal(t, 0, arena.OverlapCount())

	first, last := arena.Bounds(key)
	assert.Equal(t, date(2026, 6, 1), first)
	assert.Equal(t, date(2026, 6, 20), last)
}

func TestArena_OpenIntervalResolvesToAsOf(t *testing.T) {
	asOf := date(2026, 6, 30)
	intervals := []*statsmodels.RosterStatusInterval{
		activeInterval("p1", 7, date(2026, 6, 21), nil),
	}

	arena := NewArena(intervals, asOf)
	key := PlayerTeamKey{MLBPlayerID: "p1", TeamID: 7}

	assert.Equal(t, uint32(10), arena.ActiveDays(key))
	_, last := arena.Bounds(key)
	assert.Equal(t, asOf, last)
}

func TestArena_OverlapDoesNotDoubleCount(t *testing.T) {
	// Overlapping same-key intervals violate the upstream invariant; the
	// arena unions the day-sets instead of summing naively.
	asOf := date(2026, 6, 30)
	intervals := []*statsmodels.RosterStatusInterval{
		activeInterval("p1", 7, date(2026, 6, 1), datePtr(2026, 6, 10)),
		activeInterval("p1", 7, date(2026, 6, 5), datePtr(2026, 6, 12)),
	}

	arena := NewArena(intervals, asOf)
	key := PlayerTeamKey{MLBPlayerID: "p1", TeamID: 7}

	assert.Equal(t, uint32(12), arena.ActiveDays(key))
	assert.Equal(t, 1, arena.OverlapCount())
	require.Len(t, arena.Spans(key), 1)
}

func TestArena_SeparateTeamsTrackedSeparately(t *testing.T) {
	asOf := date(2026, 6, 30)
	intervals := []*statsmodels.RosterStatusInterval{
		activeInterval("p1", 7, date(2026, 6, 1), datePtr(2026, 6, 10)),
		activeInterval("p1", 9, date(2026, 6, 11), datePtr(2026, 6, 20)),
	}

	arena := NewArena(intervals, asOf)
	require.Len(t, arena.Keys(), 2)
	assert.Equal(t, uint32(10), arena.ActiveDays(PlayerTeamKey{MLBPlayerID: "p1", TeamID: 7}))
	assert.Equal(t, uint32(10), arena.ActiveDays(PlayerTeamKey{MLBPlayerID: "p1", TeamID: 9}))
}

func TestArena_IgnoresNonActiveAndFuture(t *testing.T) {
	asOf := date(2026, 6, 30)
	bench := activeInterval("p1", 7, date(2026, 6, 1), datePtr(2026, 6, 10))
	bench.Status = statsmodels.StatusBench
	intervals := []*statsmodels.RosterStatusInterval{
		bench,
		activeInterval("p2", 7, date(2026, 7, 5), nil), // starts after as-of
	}

	arena := NewArena(intervals, asOf)
	assert.Empty(t, arena.Keys())
}

func TestArena_ClampsEndBeyondAsOf(t *testing.T) {
	asOf := date(2026, 6, 30)
	intervals := []*statsmodels.RosterStatusInterval{
		activeInterval("p1", 7, date(2026, 6, 25), datePtr(2026, 7, 10)),
	}

	arena := NewArena(intervals, asOf)
	assert.Equal(t, uint32(6), arena.ActiveDays(PlayerTeamKey{MLBPlayerID: "p1", TeamID: 7}))
}

func TestArena_AdjacentSpansCoalesceWithoutOverlap(t *testing.T) {
	asOf := date(2026, 6, 30)
	intervals := []*statsmodels.RosterStatusInterval{
		activeInterval("p1", 7, date(2026, 6, 1), datePtr(2026, 6, 10)),
		activeInterval("p1", 7, date(2026, 6, 11), datePtr(2026, 6, 15)),
	}

	arena := NewArena(intervals, asOf)
	key := PlayerTeamKey{MLBPlayerID: "p1", TeamID: 7}

	assert.Equal(t, uint32(15), arena.ActiveDays(key))
	assert.Equal(t, 0, arena.OverlapCount())
	require.Len(t, arena.Spans(key), 1)
}
