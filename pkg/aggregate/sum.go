package aggregate

import (
	statsmodels "github.com/dugoutlabs/statline/pkg/db/models/stats"
	"github.com/dugoutlabs/statline/pkg/stats"
)

// Sum reduces game events into a single counting bag.
func Sum(events []*statsmodels.GameEvent) stats.Counting {
	var total stats.Counting
	for _, ev := range events {
		total.Add(ev.Counting())
	}
	return total
}

// SumByPlayer reduces game events into one counting bag per player.
func SumByPlayer(events []*statsmodels.GameEvent) map[string]stats.Counting {
	totals := make(map[string]stats.Counting)
	for _, ev := range events {
		t := totals[ev.PlayerID]
		t.Add(ev.Counting())
		totals[ev.PlayerID] = t
	}
	return totals
}

// Accrue reduces one player's game events against that player's merged
// active spans: only events dated inside a span count. Spans are disjoint by
// construction, so each game contributes at most once no matter how the
// upstream intervals looked.
func Accrue(spans []Span, events []*statsmodels.GameEvent) stats.Counting {
	var total stats.Counting
	for _, ev := range events {
		for _, s := range spans {
			if s.Contains(ev.GameDate) {
				total.Add(ev.Counting())
				break
			}
		}
	}
	return total
}
