// Package stats holds the derived-stat calculator: pure functions that turn
// counting stats into rate stats. No I/O happens here; every aggregator in
// the pipeline feeds its sums through this package.
package stats

// Counting is the full counting-stat bag accumulated from game events.
// Innings pitched are carried as outs (thirds of an inning) so that
// accumulation stays exact integer arithmetic; the fractional innings value
// only materializes inside the rate formulas.
type Counting struct {
	Games uint32

	// Batting
	AtBats         uint32
	Hits           uint32
	Runs           uint32
	RunsBattedIn   uint32
	HomeRuns       uint32
	Doubles        uint32
	Triples        uint32
	StolenBases    uint32
	CaughtStealing uint32
	Walks          uint32
	Strikeouts     uint32
	HitByPitch     uint32

	// Pitching
	OutsPitched       uint32
	EarnedRuns        uint32
	HitsAllowed       uint32
	WalksAllowed      uint32
	PitcherStrikeouts uint32
	Wins              uint32
	Losses            uint32
	Saves             uint32
	BlownSaves        uint32
	Holds             uint32
	GamesStarted      uint32

	// QualityStarts is the sum of per-game quality-start flags. It is never
	// re-derived from aggregated outs/earned runs: two individually
	// non-quality starts can aggregate to numbers that look like one.
	QualityStarts uint32
}

// Add accumulates another counting bag into c.
func (c *Counting) Add(o Counting) {
	c.Games += o.Games

	c.AtBats += o.AtBats
	c.Hits += o.Hits
	c.Runs += o.Runs
	c.RunsBattedIn += o.RunsBattedIn
	c.HomeRuns += o.HomeRuns
	c.Doubles += o.Doubles
	c.Triples += o.Triples
	c.StolenBases += o.StolenBases
	c.CaughtStealing += o.CaughtStealing
	c.Walks += o.Walks
	c.Strikeouts += o.Strikeouts
	c.HitByPitch += o.HitByPitch

	c.OutsPitched += o.OutsPitched
	c.EarnedRuns += o.EarnedRuns
	c.HitsAllowed += o.HitsAllowed
	c.WalksAllowed += o.WalksAllowed
	c.PitcherStrikeouts += o.PitcherStrikeouts
	c.Wins += o.Wins
	c.Losses += o.Losses
	c.Saves += o.Saves
	c.BlownSaves += o.BlownSaves
	c.Holds += o.Holds
	c.GamesStarted += o.GamesStarted
	c.QualityStarts += o.QualityStarts
}

// InningsPitched returns outs expressed as innings.
func (c Counting) InningsPitched() float64 {
	return float64(c.OutsPitched) / 3.0
}
