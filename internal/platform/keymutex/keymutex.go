package keymutex

import "sync"

// Map hands out one mutex per key and forgets keys nobody holds or waits on.
type Map struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *Map {
	return &Map{locks: map[string]*entry{}}
}

// Lock blocks until key is free and returns the matching unlock func.
func (m *Map) Lock(key string) func() {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		m.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}
}

func (m *Map) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
