// Package aggregate holds the pure reductions behind the pipeline: summation
// of game events into counting bags and the roster-interval replay. Nothing
// here touches a store, which is what keeps the replay unit-testable.
package aggregate

import (
	"sort"
	"time"

	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
)

// Span is an inclusive date range, normalized to UTC midnight.
type Span struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive day count of the span.
func (s Span) Days() uint32 {
	return uint32(s.End.Sub(s.Start).Hours()/24) + 1
}

// Contains reports whether the date (normalized) falls inside the span.
func (s Span) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(s.Start) && !d.After(s.End)
}

// PlayerTeamKey identifies one active-accrued aggregate: the same player on
// different fantasy teams, or re-activated in disjoint periods on the same
// team, accrues separately per key.
type PlayerTeamKey struct {
	MLBPlayerID string
	TeamID      uint64
}

// Arena is the normalized, immutable view of a league's active-roster
// intervals for one run. Open-ended intervals are resolved to the as-of date
// exactly once at construction; afterwards the structure never re-reads the
// clock. Per-key intervals are merged into disjoint spans so that an
// upstream overlap can never double-count days or stats.
type Arena struct {
	AsOf     time.Time
	spans    map[PlayerTeamKey][]Span
	overlaps int
}

// NewArena builds the arena from raw interval rows. Intervals that are not
// active-status, start after the as-of date, or end before they start are
// dropped. End dates beyond as-of are clamped: the future is not replayable.
func NewArena(intervals []*statsmodels.RosterStatusInterval, asOf time.Time) *Arena {
	asOf = Day(asOf)
	raw := make(map[PlayerTeamKey][]Span)

	for _, iv := range intervals {
		if iv.Status != statsmodels.StatusActive {
			continue
		}
		start := Day(iv.EffectiveDate)
		if start.After(asOf) {
			continue
		}
		end := asOf
		if iv.EndDate != nil {
			end = Day(*iv.EndDate)
			if end.After(asOf) {
				end = asOf
			}
		}
		if end.Before(start) {
			continue
		}
		key := PlayerTeamKey{MLBPlayerID: iv.MLBPlayerID, TeamID: iv.TeamID}
		raw[key] = append(raw[key], Span{Start: start, End: end})
	}

	a := &Arena{AsOf: asOf, spans: make(map[PlayerTeamKey][]Span, len(raw))}
	for key, spans := range raw {
		merged, overlaps := mergeSpans(spans)
		a.spans[key] = merged
		a.overlaps += overlaps
	}
	return a
}

// Keys returns every (player, team) key in deterministic order.
func (a *Arena) Keys() []PlayerTeamKey {
	keys := make([]PlayerTeamKey, 0, len(a.spans))
	for k := range a.spans {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].MLBPlayerID != keys[j].MLBPlayerID {
			return keys[i].MLBPlayerID < keys[j].MLBPlayerID
		}
		return keys[i].TeamID < keys[j].TeamID
	})
	return keys
}

// Spans returns the merged, disjoint, sorted spans for a key.
func (a *Arena) Spans(key PlayerTeamKey) []Span {
	return a.spans[key]
}

// ActiveDays returns the total number of distinct active days for a key:
// the size of the union of the key's interval day-sets.
func (a *Arena) ActiveDays(key PlayerTeamKey) uint32 {
	var days uint32
	for _, s := range a.spans[key] {
		days += s.Days()
	}
	return days
}

// Bounds returns the first and last active date for a key.
func (a *Arena) Bounds(key PlayerTeamKey) (first, last time.Time) {
	spans := a.spans[key]
	if len(spans) == 0 {
		return time.Time{}, time.Time{}
	}
	return spans[0].Start, spans[len(spans)-1].End
}

// OverlapCount reports how many overlapping same-key intervals were observed
// while building the arena. Upstream guarantees disjointness; a non-zero
// count is an invariant violation worth flagging to the roster-transaction
// owners.
func (a *Arena) OverlapCount() int {
	return a.overlaps
}

// Day truncates a timestamp to its UTC date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// mergeSpans sorts spans and coalesces overlapping or adjacent ones,
// returning the disjoint result and the number of true overlaps seen.
func mergeSpans(spans []Span) ([]Span, int) {
	if len(spans) == 0 {
		return nil, 0
	}
	sort.Slice(spans, func(i, j int) bool {
		if !spans[i].Start.Equal(spans[j].Start) {
			return spans[i].Start.Before(spans[j].Start)
		}
		return spans[i].End.Before(spans[j].End)
	})

	merged := []Span{spans[0]}
	overlaps := 0
	for _, s := range spans[1:] {
		cur := &merged[len(merged)-1]
		if !s.Start.After(cur.End) {
			overlaps++
			if s.End.After(cur.End) {
				cur.End = s.End
			}
			continue
		}
		if s.Start.Equal(cur.End.AddDate(0, 0, 1)) {
			// Adjacent spans coalesce without counting as an overlap.
			cur.End = s.End
			continue
		}
		merged = append(merged, s)
	}
	return merged, overlaps
}
