package parjoin

import "sync/atomic"

// Stats is a live, lock-free snapshot of a join's inner-runner activity,
// obtainable via ParJoinWithStats.
type Stats struct {
	open      atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats' counters.
type StatsSnapshot struct {
	// Open is the number of inner runners currently holding an admission
	// permit.
	Open int64
	// Completed is the number of inner runners that finished without
	// producing an error (their own error, or their lease's finalizer
	// error).
	Completed int64
	// Failed is the number of inner runners that finished with an error.
	Failed int64
}

// Snapshot reads all three counters. It is not atomic as a whole (each
// field is read independently), which is sufficient for observability but
// not for synchronization.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Open:      s.open.Load(),
		Completed: s.completed.Load(),
		Failed:    s.failed.Load(),
	}
}
