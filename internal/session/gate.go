package session

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate admits at most one in-flight request. A view is Pending while the gate is held.
type Gate struct {
	sem     *semaphore.Weighted
	pending atomic.Bool
}

// NewGate returns an idle gate.
func NewGate() *Gate {
	return &Gate{sem: semaphore.NewWeighted(1)}
}

// TryEnter moves Idle -> Pending. It returns false without blocking if a request
// is already in flight.
func (g *Gate) TryEnter() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.pending.Store(true)
	return true
}

// Leave moves Pending -> Idle. Calling it while Idle is a no-op.
func (g *Gate) Leave() {
	if g.pending.CompareAndSwap(true, false) {
		g.sem.Release(1)
	}
}

// Pending reports whether a request is in flight.
func (g *Gate) Pending() bool {
	return g.pending.Load()
}
