package loader

import "sync"

// Ticket identifies one load request.
type Ticket uint64

// Guard keeps a slow, superseded load from overwriting the document of a
// later one: only the newest ticket may commit.
type Guard struct {
	mu     sync.Mutex
	latest Ticket
}

// Begin issues a ticket that supersedes every earlier one.
func (g *Guard) Begin() Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest++
	return g.latest
}

// Commit runs apply only if t is still the newest ticket, and reports
// whether it did.
func (g *Guard) Commit(t Ticket, apply func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t != g.latest {
		return false
	}
	apply()
	return true
}

func (g *Guard) Current() Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest
}
