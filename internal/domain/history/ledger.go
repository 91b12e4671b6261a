package history

import (
	"sync"

	"github.com/google/uuid"
)

// Ledger is the append-only in-memory history, most recent first. There is
// no edit or delete operation. The ledger is an explicit store passed by
// reference to whoever needs it, never a package-level singleton.
type Ledger struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{entries: make([]Entry, 0)}
}

// Add assigns a fresh ID when missing and prepends the entry
func (l *Ledger) Add(entry Entry) Entry {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry{entry}, l.entries...)
	return entry
}

// Entries returns a copy of the ledger, most recent first
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]Entry, len(l.entries))
	copy(result, l.entries)
	return result
}

// Len returns the number of recorded entries
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
