package session

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/suma-expressitbd/storefront-core/internal/events"
	"github.com/suma-expressitbd/storefront-core/internal/persist"
)

// Manager owns the engines, one per session, for the life of the
// process. Engines are created and hydrated exactly once; singleflight
// keeps a burst of first requests from hydrating the same session
// twice.
type Manager struct {
	persist persist.Store
	emitter *events.Emitter

	sfg     singleflight.Group
	mu      sync.RWMutex
	engines map[string]*Engine
}

func NewManager(ps persist.Store, emitter *events.Emitter) *Manager {
	return &Manager{
		persist: ps,
		emitter: emitter,
		engines: make(map[string]*Engine),
	}
}

// Get returns the engine for a session, creating and hydrating it on
// first use.
func (m *Manager) Get(ctx context.Context, sessionID string) *Engine {
	m.mu.RLock()
	e, ok := m.engines[sessionID]
	m.mu.RUnlock()
	if ok {
		return e
	}

	v, _, _ := m.sfg.Do(sessionID, func() (interface{}, error) {
		m.mu.RLock()
		e, ok := m.engines[sessionID]
		m.mu.RUnlock()
		if ok {
			return e, nil
		}

		e = NewEngine(sessionID, m.persist, LogNotifier{SessionID: sessionID}, m.emitter)
		e.Hydrate(ctx)

		m.mu.Lock()
		m.engines[sessionID] = e
		m.mu.Unlock()
		return e, nil
	})

	return v.(*Engine)
}
