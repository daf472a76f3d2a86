// Package session keeps one live cart per shopper session.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/example/snack-storefront/internal/domain/cart"
	"github.com/example/snack-storefront/internal/infrastructure/store"
)

var ErrEmptySessionID = errors.New("session id is required")

type entry struct {
	cart     *cart.Store
	lastSeen time.Time
}

// Manager owns the cart store of every active session.
// A swept session is rebuilt from its slot on the next request.
type Manager struct {
	mu        sync.Mutex
	slot      store.Slot
	namespace string
	opts      []cart.Option
	sessions  map[string]*entry
	now       func() time.Time
}

func NewManager(slot store.Slot, namespace string, opts ...cart.Option) *Manager {
	if namespace == "" {
		namespace = cart.DefaultNamespace
	}
	return &Manager{
		slot:      slot,
		namespace: namespace,
		opts:      opts,
		sessions:  make(map[string]*entry),
		now:       time.Now,
	}
}

// Cart returns the session's cart, loading it from the slot on first use.
// The slot read happens outside the lock; if two callers load the same
// session at once, the first one registered wins.
func (m *Manager) Cart(ctx context.Context, sessionID string) (*cart.Store, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	if c, ok := m.touch(sessionID); ok {
		return c, nil
	}

	loaded := cart.NewStore(ctx, m.slot, cart.Key(m.namespace, sessionID), m.opts...)

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[sessionID]; ok {
		e.lastSeen = m.now()
		return e.cart, nil
	}
	m.sessions[sessionID] = &entry{cart: loaded, lastSeen: m.now()}
	return loaded, nil
}

func (m *Manager) touch(sessionID string) (*cart.Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.cart, true
}

// Sweep drops carts idle for longer than idle and returns how many were dropped.
// Persisted payloads are left in place.
func (m *Manager) Sweep(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-idle)
	dropped := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		log.Printf("[Session] Swept %d idle sessions, %d active", dropped, len(m.sessions))
	}
	return dropped
}

// Run sweeps on every tick until ctx is cancelled
func (m *Manager) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(idle)
		}
	}
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
