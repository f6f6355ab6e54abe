package stats

import "time"

// Tenant registry tables in the canonical store. Both are maintained by the
// league-management subsystem; the engine reads them to drive fan-out.
const (
	LeaguesTableName          = "leagues"
	LeaguePlayerPoolTableName = "league_player_pool"
)

// League is one tenant. Paused leagues are skipped by every fan-out stage.
type League struct {
	LeagueID  uint64    `ch:"league_id" json:"league_id"`
	Name      string    `ch:"name" json:"name"`
	Paused    uint8     `ch:"paused" json:"paused"`
	UpdatedAt time.Time `ch:"updated_at" json:"updated_at"`
}

// PoolPlayer is one entry of a league's player pool: the filter predicate
// applied when projecting canonical aggregates into that league's store.
type PoolPlayer struct {
	LeagueID    uint64    `ch:"league_id" json:"league_id"`
	MLBPlayerID string    `ch:"mlb_player_id" json:"mlb_player_id"`
	AddedAt     time.Time `ch:"added_at" json:"added_at"`
}

// LeagueColumns is the schema for the leagues table.
var LeagueColumns = []ColumnDef{
	{Name: "league_id", Type: "UInt64"},
	{Name: "name", Type: "String", Codec: "ZSTD(1)"},
	{Name: "paused", Type: "UInt8"},
	{Name: "updated_at", Type: "DateTime64(6)", Codec: "DoubleDelta, LZ4"},
}

// LeaguePlayerPoolColumns is the schema for league_player_pool.
var LeaguePlayerPoolColumns = []ColumnDef{
	{Name: "league_id", Type: "UInt64"},
	{Name: "mlb_player_id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "added_at", Type: "DateTime64(6)", Codec: "DoubleDelta, LZ4"},
}
