package arbiter

import (
	"sync"

	"stayfinder/internal/domain/property"
)

// propertyLocks serializes the check+write critical section per property.
// Entries are never evicted; the registry is bounded by the number of
// properties the process has arbitrated.
type propertyLocks struct {
	mu sync.Mutex
	m  map[property.PropertyID]*sync.Mutex
}

func newPropertyLocks() *propertyLocks {
	return &propertyLocks{m: make(map[property.PropertyID]*sync.Mutex)}
}

func (l *propertyLocks) acquire(id property.PropertyID) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.m[id]
	if !ok {
		entry = &sync.Mutex{}
		l.m[id] = entry
	}
	l.mu.Unlock()

	entry.Lock()
	return entry.Unlock
}
