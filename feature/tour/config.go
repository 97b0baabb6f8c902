package tour

import "time"

// Config holds reconciliation tuning.
type Config struct {
	// PageSize is the TourAPI numOfRows per page.
	PageSize int `mapstructure:"page_size" default:"100"`
	// SnapshotTTLSeconds is how long a fetched source key set is reused by the
	// orphan audit. Zero always refetches.
	SnapshotTTLSeconds int `mapstructure:"snapshot_ttl_seconds" default:"600"`
	// Parallel bounds concurrent category syncs in SyncAll. One is sequential.
	Parallel int `mapstructure:"parallel" default:"1"`
	// LockTTLMinutes bounds how long a sync or pass may hold its lock.
	LockTTLMinutes int `mapstructure:"lock_ttl_minutes" default:"60"`
	// EquivalencesFile is an optional JSON object of Korean title to English
	// title used by the English matcher.
	EquivalencesFile string `mapstructure:"equivalences_file" default:""`
}

func (c Config) snapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLSeconds) * time.Second
}

func (c Config) lockTTL() time.Duration {
	if c.LockTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.LockTTLMinutes) * time.Minute
}

func (c Config) parallel() int {
	if c.Parallel <= 0 {
		return 1
	}
	return c.Parallel
}
