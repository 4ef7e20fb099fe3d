package assembler

import "sync"

// Manager holds one flow per operator session token. Flows are
// in-process state: a server restart clears them, which only costs the
// operator an in-progress selection.
type Manager struct {
	mu    sync.Mutex
	flows map[string]*Flow
}

// NewManager creates an empty flow manager.
func NewManager() *Manager {
	return &Manager{flows: make(map[string]*Flow)}
}

// Get returns the flow for a session token, creating one if absent.
func (m *Manager) Get(token string) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[token]
	if !ok {
		f = NewFlow()
		m.flows[token] = f
	}
	return f
}

// Drop removes a session's flow, called on logout.
func (m *Manager) Drop(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, token)
}

// WithFlow runs fn while holding the manager lock, serializing access to
// the session's flow.
func (m *Manager) WithFlow(token string, fn func(*Flow) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[token]
	if !ok {
		f = NewFlow()
		m.flows[token] = f
	}
	return fn(f)
}
