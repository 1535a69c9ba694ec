package missions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	domain "github.com/bryanwahyu/automaton-secops/internal/domain/missions"
)

// NotesWriter persists one phase's notes.
type NotesWriter func(ctx context.Context, ownerID string, id domain.PhaseID, notes string) error

// NotesDebouncer coalesces notes edits per phase. An edit is written once no
// newer edit for the same phase arrived within the window; the latest text
// wins.
type NotesDebouncer struct {
	window time.Duration
	write  NotesWriter
	log    logrus.FieldLogger

	mu      sync.Mutex
	pending map[domain.PhaseID]*pendingNotes
	writing map[domain.PhaseID]*phaseWriter
	gen     uint64
	closed  bool
}

type pendingNotes struct {
	owner string
	notes string
	gen   uint64
	timer *time.Timer
}

// phaseWriter orders writes for one phase. It is held across the store call
// and remembers the newest generation written, so an older text can never
// land after a newer one.
type phaseWriter struct {
	mu      sync.Mutex
	written uint64
}

func NewNotesDebouncer(window time.Duration, write NotesWriter, log logrus.FieldLogger) *NotesDebouncer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NotesDebouncer{
		window:  window,
		write:   write,
		log:     log,
		pending: make(map[domain.PhaseID]*pendingNotes),
		writing: make(map[domain.PhaseID]*phaseWriter),
	}
}

var ErrDebouncerClosed = errors.New("notes debouncer closed")

// Schedule records an edit and (re)starts the phase's quiescence timer.
func (d *NotesDebouncer) Schedule(ownerID string, id domain.PhaseID, notes string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDebouncerClosed
	}

	d.gen++
	gen := d.gen
	if p, ok := d.pending[id]; ok {
		p.timer.Stop()
	}
	d.pending[id] = &pendingNotes{
		owner: ownerID,
		notes: notes,
		gen:   gen,
		timer: time.AfterFunc(d.window, func() { d.fire(id, gen) }),
	}
	return nil
}

// Pending is the number of phases with unwritten edits.
func (d *NotesDebouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *NotesDebouncer) writer(id domain.PhaseID) *phaseWriter {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.writing[id]
	if !ok {
		w = &phaseWriter{}
		d.writing[id] = w
	}
	return w
}

// store writes p unless a newer edit for the phase was already written.
func (d *NotesDebouncer) store(ctx context.Context, id domain.PhaseID, p *pendingNotes) error {
	w := d.writer(id)
	w.mu.Lock()
	defer w.mu.Unlock()
	if p.gen <= w.written {
		return nil
	}
	w.written = p.gen
	return d.write(ctx, p.owner, id, p.notes)
}

func (d *NotesDebouncer) fire(id domain.PhaseID, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[id]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, id)
	d.mu.Unlock()

	if err := d.store(context.Background(), id, p); err != nil {
		d.log.WithError(err).WithField("phase_id", id).Error("failed to save phase notes")
	}
}

// Flush writes every pending edit now and returns the first error.
func (d *NotesDebouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	batch := d.pending
	d.pending = make(map[domain.PhaseID]*pendingNotes)
	d.mu.Unlock()

	var first error
	for id, p := range batch {
		p.timer.Stop()
		if err := d.store(ctx, id, p); err != nil {
			d.log.WithError(err).WithField("phase_id", id).Error("failed to flush phase notes")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Close flushes pending edits and rejects new ones.
func (d *NotesDebouncer) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Flush(ctx)
}
