package session

import "time"

// guard is the single-slot request token. It is only touched with the
// session mutex held.
type guard struct {
	busy  bool
	since time.Time
}

func (g *guard) tryAcquire(now time.Time) bool {
	if g.busy {
		return false
	}
	g.busy = true
	g.since = now
	return true
}

func (g *guard) release() {
	g.busy = false
	g.since = time.Time{}
}
