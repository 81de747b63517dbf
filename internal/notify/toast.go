package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is how long a toast stays visible when the caller does not
// pick one.
const DefaultDuration = 5 * time.Second

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Text      string    `json:"text"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Hub holds the currently visible toasts. Each message dismisses itself at
// expiry and never earlier.
type Hub struct {
	mu     sync.Mutex
	toasts map[string]Toast
	timers map[string]*time.Timer
}

func NewHub() *Hub {
	return &Hub{
		toasts: make(map[string]Toast),
		timers: make(map[string]*time.Timer),
	}
}

func (h *Hub) Show(level Level, text string, d time.Duration) string {
	if d <= 0 {
		d = DefaultDuration
	}

	t := Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Text:      text,
		ExpiresAt: time.Now().Add(d),
	}

	h.mu.Lock()
	h.toasts[t.ID] = t
	h.timers[t.ID] = time.AfterFunc(d, func() { h.Dismiss(t.ID) })
	h.mu.Unlock()

	return t.ID
}

func (h *Hub) Success(text string) string { return h.Show(LevelSuccess, text, 0) }
func (h *Hub) Error(text string) string   { return h.Show(LevelError, text, 0) }
func (h *Hub) Info(text string) string    { return h.Show(LevelInfo, text, 0) }

func (h *Hub) Dismiss(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if timer, ok := h.timers[id]; ok {
		timer.Stop()
		delete(h.timers, id)
	}
	delete(h.toasts, id)
}

// Close stops every pending dismiss timer and drops all toasts.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, timer := range h.timers {
		timer.Stop()
		delete(h.timers, id)
	}
	h.toasts = make(map[string]Toast)
}

func (h *Hub) Active() []Toast {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Toast, 0, len(h.toasts))
	for _, t := range h.toasts {
		out = append(out, t)
	}
	return out
}
