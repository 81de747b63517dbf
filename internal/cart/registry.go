package cart

import (
	"sync"

	"github.com/nhattin/storefront/internal/notify"
)

// Registry keeps one Manager per session ID. Mirrors belong to the session
// that filled them; nothing another session does can replace them.
type Registry struct {
	mu       sync.Mutex
	api      RemoteAPI
	toasts   *notify.Broker
	managers map[string]*Manager
}

func NewRegistry(api RemoteAPI, toasts *notify.Broker) *Registry {
	return &Registry{
		api:      api,
		toasts:   toasts,
		managers: make(map[string]*Manager),
	}
}

// For returns the session's manager, creating it on first use. The manager
// posts its toasts to the same session's hub.
func (r *Registry) For(sessionID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[sessionID]
	if !ok {
		m = NewManager(r.api, r.toasts.For(sessionID))
		r.managers[sessionID] = m
	}
	return m
}

// Drop forgets the session's mirror. Called on logout.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, sessionID)
}
