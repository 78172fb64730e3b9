// Package ledger keeps the ordered outcomes of one probe run.
package ledger

import (
	"sync"
	"time"

	"giwa/sdk-probe/internal/domain"
)

// Observer is notified after every upsert with the entry's position.
type Observer func(index int, outcome domain.Outcome)

// Ledger is an ordered list of outcomes keyed by probe name. Upserting an
// existing name overwrites it in place, so each name appears at most once.
type Ledger struct {
	mu        sync.RWMutex
	outcomes  []domain.Outcome
	index     map[string]int
	observers []Observer
}

func New() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Observe registers fn for subsequent upserts. Observers run on the writer's
// goroutine after the lock is released.
func (l *Ledger) Observe(fn Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// Reset clears all entries.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = nil
	l.index = make(map[string]int)
}

// Upsert records status for name. A zero duration pointer means the entry
// carries no timing.
func (l *Ledger) Upsert(name string, status domain.Status, message string, duration *time.Duration) {
	outcome := domain.Outcome{
		Name:    name,
		Status:  status,
		Message: message,
	}
	if duration != nil {
		outcome.Duration = domain.Millis(*duration)
	}

	l.mu.Lock()
	pos, ok := l.index[name]
	if ok {
		l.outcomes[pos] = outcome
	} else {
		pos = len(l.outcomes)
		l.outcomes = append(l.outcomes, outcome)
		l.index[name] = pos
	}
	observers := l.observers
	l.mu.Unlock()

	for _, fn := range observers {
		fn(pos, outcome)
	}
}

// Outcomes returns a copy of the entries in insertion order.
func (l *Ledger) Outcomes() []domain.Outcome {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Outcome, len(l.outcomes))
	copy(out, l.outcomes)
	return out
}

// Get returns the entry for name.
func (l *Ledger) Get(name string) (domain.Outcome, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	pos, ok := l.index[name]
	if !ok {
		return domain.Outcome{}, false
	}
	return l.outcomes[pos], true
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.outcomes)
}

// Counts tallies the current entries by status.
func (l *Ledger) Counts() domain.Counts {
	return domain.CountOutcomes(l.Outcomes())
}
