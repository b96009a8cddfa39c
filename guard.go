package sitepress

import "sync/atomic"

// RunGuard admits at most one full optimization pass at a time. A trigger
// arriving while a pass is running is dropped, not queued; the staleness
// oracle re-evaluates everything from scratch on the next run anyway.
type RunGuard struct {
	running atomic.Bool
}

// TryStart claims the guard. It returns false if a run is already in
// flight, in which case the caller must not call Done.
func (g *RunGuard) TryStart() bool {
	return g.running.CompareAndSwap(false, true)
}

// Done releases the guard after a run completes.
func (g *RunGuard) Done() {
	g.running.Store(false)
}

// Running reports whether a pass is currently in flight.
func (g *RunGuard) Running() bool {
	return g.running.Load()
}
