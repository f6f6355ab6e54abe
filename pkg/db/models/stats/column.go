package stats

import (
	"fmt"
	"strings"
)

// ColumnDef defines a single column for a table. It is the single source of
// truth for schemas, shared by the canonical store and the per-league
// databases so the synchronizer can never drift from the table layout.
type ColumnDef struct {
	// Name is the column name.
	Name string

	// Type is the ClickHouse data type (e.g. "UInt32", "String", "Date").
	Type string

	// Codec is the optional compression codec. Empty for none.
	Codec string
}

// SQL returns the full column definition for CREATE TABLE statements.
func (c ColumnDef) SQL() string {
	if c.Codec != "" {
		return fmt.Sprintf("%s %s CODEC(%s)", c.Name, c.Type, c.Codec)
	}
	return fmt.Sprintf("%s %s", c.Name, c.Type)
}

// ColumnsToSchemaSQL renders column definitions as the body of a CREATE TABLE.
func ColumnsToSchemaSQL(cols []ColumnDef) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, c.SQL())
	}
	return strings.Join(parts, ",\n\t\t\t")
}

// ColumnNames returns just the column names, in definition order.
func ColumnNames(cols []ColumnDef) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names
}

// countingColumns is the shared counting-stat column block embedded into
// every aggregate table. Order matches the Counting fields appended by the
// batch writers.
func countingColumns() []ColumnDef {
	return []ColumnDef{
		{Name: "games", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
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
		{Name: "games_started", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
		{Name: "quality_starts", Type: "UInt32", Codec: "Delta, ZSTD(1)"},
	}
}

// rateColumns is the derived rate-stat column block. Rates are always
// recomputed from the counting columns of the same row, never updated
// independently of them.
func rateColumns() []ColumnDef {
	return []ColumnDef{
		{Name: "avg", Type: "Float64"},
		{Name: "obp", Type: "Float64"},
		{Name: "slg", Type: "Float64"},
		{Name: "ops", Type: "Float64"},
		{Name: "era", Type: "Float64"},
		{Name: "whip", Type: "Float64"},
	}
}
