package stats

import (
	"time"

	corestats "github.com/dugoutlabs/statline/pkg/stats"
)

// Aggregate table names in the canonical store. The per-league databases use
// their own names (see pkg/db/league) but share the same column blocks.
const (
	SeasonAggregatesTableName  = "season_aggregates"
	RollingAggregatesTableName = "rolling_aggregates"
	ActiveAccruedTableName     = "active_accrued_aggregates"
)

// Rolling-window labels recomputed every run.
const (
	Rolling7d  = "7d"
	Rolling14d = "14d"
	Rolling30d = "30d"
)

// RollingWindowDays maps a period label to its trailing length in days.
var RollingWindowDays = map[string]int{
	Rolling7d:  7,
	Rolling14d: 14,
	Rolling30d: 30,
}

// SeasonAggregate is a player's season-to-date line, replaced wholesale on
// every recompute. Rates are derived from the counting fields of this same
// row and never stored independently of them.
type SeasonAggregate struct {
	PlayerID string
	Season   uint16

	corestats.Counting
	corestats.Rates

	UpdatedAt time.Time
}

// RollingAggregate is one player's trailing-window line as of one run date.
// The table is a daily snapshot series; rows older than the retention
// horizon are purged after each run.
type RollingAggregate struct {
	PlayerID    string
	PeriodLabel string
	AsOfDate    time.Time

	corestats.Counting
	corestats.Rates

	UpdatedAt time.Time
}

// ActiveAccruedAggregate is the stat line a player earned only while on a
// fantasy team's active roster, keyed by (mlb_player_id, league_id, team_id)
// and recomputed by replaying the full interval history for that key.
type ActiveAccruedAggregate struct {
	MLBPlayerID string
	LeagueID    uint64
	TeamID      uint64

	FirstActiveDate time.Time
	LastActiveDate  time.Time
	TotalActiveDays uint32

	corestats.Counting
	corestats.Rates

	UpdatedAt time.Time
}

// SeasonAggregateColumns is the schema for season_aggregates.
var SeasonAggregateColumns = seasonCols()

func seasonCols() []ColumnDef {
	cols := []ColumnDef{
		{Name: "player_id", Type: "String", Codec: "ZSTD(1)"},
		{Name: "season", Type: "UInt16"},
	}
	cols = append(cols, countingColumns()...)
	cols = append(cols, rateColumns()...)
	return append(cols, ColumnDef{Name: "updated_at", Type: "DateTime64(6)", Codec: "DoubleDelta, LZ4"})
}

// RollingAggregateColumns is the schema for rolling_aggregates.
var RollingAggregateColumns = rollingCols()

func rollingCols() []ColumnDef {
	cols := []ColumnDef{
		{Name: "player_id", Type: "String", Codec: "ZSTD(1)"},
		{Name: "period_label", Type: "LowCardinality(String)"},
		{Name: "as_of_date", Type: "Date", Codec: "DoubleDelta, LZ4"},
	}
	cols = append(cols, countingColumns()...)
	cols = append(cols, rateColumns()...)
	return append(cols, ColumnDef{Name: "updated_at", Type: "DateTime64(6)", Codec: "DoubleDelta, LZ4"})
}

// ActiveAccruedColumns is the schema for active_accrued_aggregates.
var ActiveAccruedColumns = activeCols()

func activeCols() []ColumnDef {
	cols := []ColumnDef{
		{Name: "mlb_player_id", Type: "String", Codec: "ZSTD(1)"},
		{Name: "league_id", Type: "UInt64", Codec: "Delta, ZSTD(1)"},
		{Name: "team_id", Type: "UInt64", Codec: "Delta, ZSTD(1)"},
		{Name: "first_active_date", Type: "Date"},
		{Name: "last_active_date", Type: "Date"},
		{Name: "total_active_days", Type: "UInt32"},
	}
	cols = append(cols, countingColumns()...)
	cols = append(cols, rateColumns()...)
	return append(cols, ColumnDef{Name: "updated_at", Type: "DateTime64(6)", Codec: "DoubleDelta, LZ4"})
}

// CountingValues flattens a counting bag in countingColumns order for batch
// appends.
func CountingValues(c corestats.Counting) []any {
	return []any{
		c.Games,
		c.AtBats, c.Hits, c.Runs, c.RunsBattedIn, c.HomeRuns, c.Doubles, c.Triples,
		c.StolenBases, c.CaughtStealing, c.Walks, c.Strikeouts, c.HitByPitch,
		c.OutsPitched, c.EarnedRuns, c.HitsAllowed, c.WalksAllowed, c.PitcherStrikeouts,
		c.Wins, c.Losses, c.Saves, c.BlownSaves, c.Holds, c.GamesStarted, c.QualityStarts,
	}
}

// RateValues flattens a rate set in rateColumns order for batch appends.
func RateValues(r corestats.Rates) []any {
	return []any{r.AVG, r.OBP, r.SLG, r.OPS, r.ERA, r.WHIP}
}
