package stats

import "time"

// RosterStatusIntervalsTableName is the append-only roster event stream.
const RosterStatusIntervalsTableName = "roster_status_intervals"

// Roster statuses the league-transaction subsystem emits. The aggregation
// engine only cares about StatusActive; the rest pass through untouched.
const (
	StatusActive  = "active"
	StatusBench   = "bench"
	StatusInjured = "injured"
	StatusMinors  = "minors"
)

// RosterStatusInterval is one interval of a player holding a roster status on
// a fantasy team. Owned by the league-transaction subsystem; this engine only
// reads the stream. An open interval has a NULL end date and is resolved to
// the run's as-of date at read time, never persisted as a concrete date.
type RosterStatusInterval struct {
	LeagueID       uint64     `ch:"league_id" json:"league_id"`
	LeaguePlayerID uint64     `ch:"league_player_id" json:"league_player_id"`
	MLBPlayerID    string     `ch:"mlb_player_id" json:"mlb_player_id"`
	TeamID         uint64     `ch:"team_id" json:"team_id"`
	Status         string     `ch:"status" json:"status"`
	EffectiveDate  time.Time  `ch:"effective_date" json:"effective_date"`
	EndDate        *time.Time `ch:"end_date" json:"end_date"`
	CreatedAt      time.Time  `ch:"created_at" json:"created_at"`
}

// RosterStatusIntervalColumns is the schema for roster_status_intervals.
var RosterStatusIntervalColumns = []ColumnDef{
	{Name: "league_id", Type: "UInt64", Codec: "Delta, ZSTD(1)"},
	{Name: "league_player_id", Type: "UInt64", Codec: "Delta, ZSTD(1)"},
	{Name: "mlb_player_id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "team_id", Type: "UInt64", Codec: "Delta, ZSTD(1)"},
	{Name: "status", Type: "LowCardinality(String)"},
	{Name: "effective_date", Type: "Date", Codec: "DoubleDelta, LZ4"},
	{Name: "end_date", Type: "Nullable(Date)"},
	{Name: "created_at", Type: "DateTime64(6)", Codec: "DoubleDelta, LZ4"},
}
