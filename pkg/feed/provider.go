package feed

import (
	"context"
	"time"
)

// PlayerLine is one player's box-score line as the upstream stat provider
// serves it. Lines are validated and normalized by ingestion before they
// reach the canonical store.
type PlayerLine struct {
	PlayerID string `json:"player_id"`
	GameDate string `json:"game_date"` // YYYY-MM-DD
	Team     string `json:"team"`
	Opponent string `json:"opponent"`
	HomeAway string `json:"home_away"`

	AtBats         uint32 `json:"at_bats"`
	Hits           uint32 `json:"hits"`
	Runs           uint32 `json:"runs"`
	RunsBattedIn   uint32 `json:"rbi"`
	HomeRuns       uint32 `json:"home_runs"`
	Doubles        uint32 `json:"doubles"`
	Triples        uint32 `json:"triples"`
	StolenBases    uint32 `json:"stolen_bases"`
	CaughtStealing uint32 `json:"caught_stealing"`
	Walks          uint32 `json:"walks"`
	Strikeouts     uint32 `json:"strikeouts"`
	HitByPitch     uint32 `json:"hit_by_pitch"`

	OutsPitched       uint32 `json:"outs_pitched"`
	EarnedRuns        uint32 `json:"earned_runs"`
	HitsAllowed       uint32 `json:"hits_allowed"`
	WalksAllowed      uint32 `json:"walks_allowed"`
	PitcherStrikeouts uint32 `json:"pitcher_strikeouts"`
	Wins              uint32 `json:"wins"`
	Losses            uint32 `json:"losses"`
	Saves             uint32 `json:"saves"`
	BlownSaves        uint32 `json:"blown_saves"`
	Holds             uint32 `json:"holds"`

	WasStartingPitcher bool `json:"was_starting_pitcher"`
}

// Provider serves finalized box scores for a stat date. The HTTP client is
// the production implementation; tests substitute fakes.
type Provider interface {
	GamesByDate(ctx context.Context, date time.Time) ([]PlayerLine, error)
}
