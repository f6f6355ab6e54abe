package stats

import (
	"time"

	corestats "github.com/dugoutlabs/statline/pkg/stats"
)

// GameEventsTableName is the canonical box-score table.
const GameEventsTableName = "game_events"

// GameEvent is one player's box-score line for one game. Rows are written by
// the ingestion collaborator and read by every aggregator. The table is a
// ReplacingMergeTree keyed by (player_id, game_date): corrections from the
// provider arrive as upserts of the same key with a newer updated_at.
type GameEvent struct {
	PlayerID string    `ch:"player_id" json:"player_id"`
	GameDate time.Time `ch:"game_date" json:"game_date"`
	Team     string    `ch:"team" json:"team"`
	Opponent string    `ch:"opponent" json:"opponent"`
	HomeAway string    `ch:"home_away" json:"home_away"` // "home" or "away"

	// Batting
	AtBats         uint32 `ch:"at_bats" json:"at_bats"`
	Hits           uint32 `ch:"hits" json:"hits"`
	Runs           uint32 `ch:"runs" json:"runs"`
	RunsBattedIn   uint32 `ch:"rbi" json:"rbi"`
	HomeRuns       uint32 `ch:"home_runs" json:"home_runs"`
	Doubles        uint32 `ch:"doubles" json:"doubles"`
	Triples        uint32 `ch:"triples" json:"triples"`
	StolenBases    uint32 `ch:"stolen_bases" json:"stolen_bases"`
	CaughtStealing uint32 `ch:"caught_stealing" json:"caught_stealing"`
	Walks          uint32 `ch:"walks" json:"walks"`
	Strikeouts     uint32 `ch:"strikeouts" json:"strikeouts"`
	HitByPitch     uint32 `ch:"hit_by_pitch" json:"hit_by_pitch"`

	// Pitching. OutsPitched carries innings pitched in thirds.
	OutsPitched       uint32 `ch:"outs_pitched" json:"outs_pitched"`
	EarnedRuns        uint32 `ch:"earned_runs" json:"earned_runs"`
	HitsAllowed       uint32 `ch:"hits_allowed" json:"hits_allowed"`
	WalksAllowed      uint32 `ch:"walks_allowed" json:"walks_allowed"`
	PitcherStrikeouts uint32 `ch:"pitcher_strikeouts" json:"pitcher_strikeouts"`
	Wins              uint32 `ch:"wins" json:"wins"`
	Losses            uint32 `ch:"losses" json:"losses"`
	Saves             uint32 `ch:"saves" json:"saves"`
	BlownSaves        uint32 `ch:"blown_saves" json:"blown_saves"`
	Holds             uint32 `ch:"holds" json:"holds"`

	// Flags computed once at ingestion.
	WasStartingPitcher bool `ch:"was_starting_pitcher" json:"was_starting_pitcher"`
	IsQualityStart     bool `ch:"is_quality_start" json:"is_quality_start"`

	UpdatedAt time.Time `ch:"updated_at" json:"updated_at"`
}

// Counting converts the event's box-score line into a counting bag for the
// calculator, carrying the quality-start flag as a summable 0/1.
func (e *GameEvent) Counting() corestats.Counting {
	c := corestats.Counting{
		Games:          1,
		AtBats:         e.AtBats,
		Hits:           e.Hits,
		Runs:           e.Runs,
		RunsBattedIn:   e.RunsBattedIn,
		HomeRuns:       e.HomeRuns,
		Doubles:        e.Doubles,
		Triples:        e.Triples,
		StolenBases:    e.StolenBases,
		CaughtStealing: e.CaughtStealing,
		Walks:          e.Walks,
		Strikeouts:     e.Strikeouts,
		HitByPitch:     e.HitByPitch,

		OutsPitched:       e.OutsPitched,
		EarnedRuns:        e.EarnedRuns,
		HitsAllowed:       e.HitsAllowed,
		WalksAllowed:      e.WalksAllowed,
		PitcherStrikeouts: e.PitcherStrikeouts,
		Wins:              e.Wins,
		Losses:            e.Losses,
		Saves:             e.Saves,
		BlownSaves:        e.BlownSaves,
		Holds:             e.Holds,
	}
	if e.WasStartingPitcher {
		c.GamesStarted = 1
	}
	if e.IsQualityStart {
		c.QualityStarts = 1
	}
	return c
}

// GameEventColumns is the schema for the game_events table.
var GameEventColumns = []ColumnDef{
	{Name: "player_id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "game_date", Type: "Date", Codec: "DoubleDelta, LZ4"},
	{Name: "team", Type: "LowCardinality(String)"},
	{Name: "opponent", Type: "LowCardinality(String)"},
	{Name: "home_away", Type: "LowCardinality(String)"},
	{Name: "at_bats", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "hits", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "runs", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "rbi", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "home_runs", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "doubles", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "triples", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "stolen_bases", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "caught_stealing", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "walks", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "strikeouts", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "hit_by_pitch", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "outs_pitched", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "earned_runs", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "hits_allowed", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "walks_allowed", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "pitcher_strikeouts", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "wins", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "losses", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "saves", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "blown_saves", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "holds", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	{Name: "was_starting_pitcher", Type: "Bool"},
	{Name: "is_quality_start", Type: "Bool"},
	{Name: "updated_at", Type: "DateTime64(6)", Codec: "DoubleDelta, LZ4"},
}
