package activity_test

import (
	"context"
	"sync"
	"time"

	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
	"github.com/dugoutlabs/statline/pkg/feed"
)

// fakeCanonicalStore implements canonical.Store in memory.
type fakeCanonicalStore struct {
	mu sync.Mutex

	events    []*statsmodels.GameEvent
	intervals map[uint64][]*statsmodels.RosterStatusInterval
	leagues   []*statsmodels.League

	seasonRows  []*statsmodels.SeasonAggregate
	rollingRows []*statsmodels.RollingAggregate
	activeRows  []*statsmodels.ActiveAccruedAggregate
	runs        []*statsmodels.RunRecord

	insertEventsErr error
	intervalErrs    map[uint64]error
	upsertSeasonErr error
	deleteCutoff    time.Time
	purgeCount      uint64
}

func (f *fakeCanonicalStore) InsertGameEvents(_ context.Context, events []*statsmodels.GameEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertEventsErr != nil {
		return f.insertEventsErr
	}
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeCanonicalStore) GameEventsForSeason(_ context.Context, season uint16) ([]*statsmodels.GameEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*statsmodels.GameEvent
	for _, ev := range f.events {
		if uint16(ev.GameDate.Year()) == season {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeCanonicalStore) GameEventsInRange(_ context.Context, from, to time.Time) ([]*statsmodels.GameEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*statsmodels.GameEvent
	for _, ev := range f.events {
		if !ev.GameDate.Before(from) && !ev.GameDate.After(to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeCanonicalStore) ActiveIntervals(_ context.Context, leagueID uint64) ([]*statsmodels.RosterStatusInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.intervalErrs[leagueID]; err != nil {
		return nil, err
	}
	return f.intervals[leagueID], nil
}

func (f *fakeCanonicalStore) EarliestActiveStart(_ context.Context) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var earliest time.Time
	for _, ivs := range f.intervals {
		for _, iv := range ivs {
			if iv.Status != statsmodels.StatusActive {
				continue
			}
			if earliest.IsZero() || iv.EffectiveDate.Before(earliest) {
				earliest = iv.EffectiveDate
			}
		}
	}
	return earliest, nil
}

func (f *fakeCanonicalStore) ListLeagues(_ context.Context) ([]*statsmodels.League, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leagues, nil
}

func (f *fakeCanonicalStore) UpsertSeasonAggregates(_ context.Context, rows []*statsmodels.SeasonAggregate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertSeasonErr != nil {
		return f.upsertSeasonErr
	}
	f.seasonRows = append(f.seasonRows, rows...)
	return nil
}

func (f *fakeCanonicalStore) UpsertRollingAggregates(_ context.Context, rows []*statsmodels.RollingAggregate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rollingRows = append(f.rollingRows, rows...)
	return nil
}

func (f *fakeCanonicalStore) UpsertActiveAccrued(_ context.Context, rows []*statsmodels.ActiveAccruedAggregate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activeRows = append(f.activeRows, rows...)
	return nil
}

func (f *fakeCanonicalStore) DeleteRollingBefore(_ context.Context, cutoff time.Time) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCutoff = cutoff
	return f.purgeCount, nil
}

func (f *fakeCanonicalStore) RecordRun(_ context.Context, rec *statsmodels.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, rec)
	return nil
}

func (f *fakeCanonicalStore) LatestRun(_ context.Context) (*statsmodels.RunRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.runs) == 0 {
		return nil, nil
	}
	return f.runs[len(f.runs)-1], nil
}

func (f *fakeCanonicalStore) DatabaseName() string { return "stats_canonical" }
func (f *fakeCanonicalStore) Close() error         { return nil }

// fakeLeagueStore implements league.Store.
type fakeLeagueStore struct {
	mu        sync.Mutex
	leagueID  uint64
	rows      uint64
	syncErr   error
	syncCalls int
}

func (f *fakeLeagueStore) SyncFromCanonical(_ context.Context, _ string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncCalls++
	if f.syncErr != nil {
		return 0, f.syncErr
	}
	return f.rows, nil
}

func (f *fakeLeagueStore) DatabaseName() string { return "league_test" }
func (f *fakeLeagueStore) LeagueKey() uint64    { return f.leagueID }
func (f *fakeLeagueStore) Close() error         { return nil }

// fakeFeed implements feed.Provider.
type fakeFeed struct {
	lines []feed.PlayerLine
	err   error
}

func (f *fakeFeed) GamesByDate(_ context.Context, _ time.Time) ([]feed.PlayerLine, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lines, nil
}
