package cart

import "sync"

// Manager hands out one cart per session and tears it down when the session
// ends. Wire DropSession to the session manager's ended hook so a cart never
// outlives its owning session.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string]*Cart)}
}

// ForSession returns the session's cart, creating it on first use.
func (m *Manager) ForSession(sid string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.carts[sid]
	if !ok {
		c = New()
		m.carts[sid] = c
	}
	return c
}

// DropSession clears and forgets the session's cart.
func (m *Manager) DropSession(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sid)
}
