package analysis

import (
	"context"
	"sync"
)

// Sequencer tags dispatches with a monotonic token per owner. Starting a new
// dispatch cancels the previous one for the same owner, and only the latest
// token may deliver a result.
type Sequencer struct {
	mu     sync.Mutex
	next   uint64
	latest map[string]inflight
}

type inflight struct {
	token  uint64
	cancel context.CancelFunc
}

// Ticket identifies one dispatch.
type Ticket struct {
	Token uint64
	owner string
	seq   *Sequencer
}

func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]inflight)}
}

// Begin issues a token for owner and returns a context that is canceled when
// a newer dispatch for the same owner begins or the ticket is released.
func (s *Sequencer) Begin(ctx context.Context, owner string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	if prev, ok := s.latest[owner]; ok {
		prev.cancel()
	}
	s.latest[owner] = inflight{token: s.next, cancel: cancel}
	return ctx, Ticket{Token: s.next, owner: owner, seq: s}
}

// Current reports whether t is still the latest dispatch for its owner.
func (t Ticket) Current() bool {
	t.seq.mu.Lock()
	defer t.seq.mu.Unlock()
	in, ok := t.seq.latest[t.owner]
	return ok && in.token == t.Token
}

// Release cancels the ticket's context and forgets it if it is still latest.
func (t Ticket) Release() {
	t.seq.mu.Lock()
	defer t.seq.mu.Unlock()
	in, ok := t.seq.latest[t.owner]
	if ok && in.token == t.Token {
		in.cancel()
		delete(t.seq.latest, t.owner)
	}
}
