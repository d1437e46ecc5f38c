// Package events carries the engine's abstract notifications to
// presentation-layer subscribers. Wording and display are the
// subscriber's concern; the engine only states what happened.
package events

import (
	"sync"
	"time"
)

// Type identifies a notification kind
type Type string

const (
	SessionStarted      Type = "session-started"
	DistractionRecorded Type = "distraction-recorded"
	BreakStarted        Type = "break-started"
	BreakEnded          Type = "break-ended"
	SessionStopped      Type = "session-stopped"
	ExportCompleted     Type = "export-completed"
	ExportFailed        Type = "export-failed"
)

// Event is one notification with an optional structured payload
type Event struct {
	Type    Type           `json:"type"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Handler receives published events. Handlers run synchronously in
// publish order and must not block.
type Handler func(Event)

// Bus fans events out to subscribers
type Bus struct {
	mu   sync.RWMutex
	subs map[int]Handler
	next int
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe registers a handler and returns its unsubscribe function
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers an event to all current subscribers
func (b *Bus) Publish(t Type, payload map[string]any) {
	evt := Event{Type: t, At: time.Now(), Payload: payload}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(evt)
	}
}
