package notify

import "sync"

// Broker hands out one Hub per session, so a session only ever sees and
// dismisses its own toasts.
type Broker struct {
	mu   sync.Mutex
	hubs map[string]*Hub
}

func NewBroker() *Broker {
	return &Broker{hubs: make(map[string]*Hub)}
}

// For returns the session's hub, creating it on first use.
func (b *Broker) For(sessionID string) *Hub {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.hubs[sessionID]
	if !ok {
		h = NewHub()
		b.hubs[sessionID] = h
	}
	return h
}

// Drop discards the session's hub, stopping its timers. Called on logout.
func (b *Broker) Drop(sessionID string) {
	b.mu.Lock()
	h, ok := b.hubs[sessionID]
	delete(b.hubs, sessionID)
	b.mu.Unlock()
	if ok {
		h.Close()
	}
}
