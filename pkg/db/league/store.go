package league

import "context"

// Store is the tenant-store surface the sync stage depends on. *DB
// implements it; the activity tests substitute fakes.
type Store interface {
	SyncFromCanonical(ctx context.Context, canonicalDB string) (uint64, error)
	DatabaseName() string
	LeagueKey() uint64
	Close() error
}

var _ Store = (*DB)(nil)
