// Package session tracks who is signed in to the CLI and tells interested
// parts of the program when that changes.
package session

import (
	"sync"
)

// Session identifies the signed-in user.
type Session struct {
	UserID string
	Email  string
}

// Manager holds the current session, nil when signed out.
type Manager struct {
	// notify orders deliveries; held while subscribers run, so they must
	// not call Set or Clear.
	notify  sync.Mutex
	mu      sync.Mutex
	current *Session
	nextID  int
	subs    map[int]func(*Session)
}

func NewManager() *Manager {
	return &Manager{subs: make(map[int]func(*Session))}
}

// Current returns a copy of the current session or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.current)
}

// Subscribe calls fn with the current value right away and after every
// change until the returned function is called.
func (m *Manager) Subscribe(fn func(*Session)) (unsubscribe func()) {
	m.notify.Lock()
	defer m.notify.Unlock()

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	cur := clone(m.current)
	m.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// Set replaces the current session. Subscribers are not called when s equals
// the current value.
func (m *Manager) Set(s *Session) {
	m.update(clone(s))
}

func (m *Manager) Clear() {
	m.update(nil)
}

func (m *Manager) update(s *Session) {
	m.notify.Lock()
	defer m.notify.Unlock()

	m.mu.Lock()
	if equal(m.current, s) {
		m.mu.Unlock()
		return
	}
	m.current = s
	fns := make([]func(*Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(clone(s))
	}
}

func clone(s *Session) *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func equal(a, b *Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
