package app

import (
	"context"
	"sync"
)

// generationTickets tracks at most one in-flight generation per owner. A ticket that
// was canceled or superseded is retired, and its eventual outcome must be discarded.
type generationTickets struct {
	mu     sync.Mutex
	seq    uint64
	active map[string]ticket
}

type ticket struct {
	id     uint64
	cancel context.CancelFunc
}

func newGenerationTickets() *generationTickets {
	return &generationTickets{active: make(map[string]ticket)}
}

// issue registers a new ticket for owner, retiring any previous one.
func (g *generationTickets) issue(ctx context.Context, owner string) (context.Context, uint64) {
	genCtx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if prev, ok := g.active[owner]; ok {
		prev.cancel()
	}
	g.seq++
	g.active[owner] = ticket{id: g.seq, cancel: cancel}
	return genCtx, g.seq
}

// cancel retires the owner's ticket. It reports whether one was in flight.
func (g *generationTickets) cancel(owner string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.active[owner]
	if !ok {
		return false
	}
	t.cancel()
	delete(g.active, owner)
	return true
}

// settle retires the ticket once its generation returned. It reports false when the
// ticket had already been retired, in which case the outcome must be ignored.
func (g *generationTickets) settle(owner string, id uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.active[owner]
	if !ok || t.id != id {
		return false
	}
	t.cancel()
	delete(g.active, owner)
	return true
}
