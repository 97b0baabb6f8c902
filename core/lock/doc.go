// Package lock serializes long-running passes.
//
// Two enrichment passes over the same category would select and update the same
// records twice, so the tour service takes a lock per (pass, category) before it
// starts. MemoryLocker covers a single admin instance; RedisLocker covers several
// instances sharing one database.
package lock
