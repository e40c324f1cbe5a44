package events

import (
	"sort"
	"sync"

	"social-client/internal/models"
)

// Event is a typed application-level notification.
type Event interface {
	Name() string
}

// LoggedIn is published after a session is established.
type LoggedIn struct {
	User  models.AuthUser
	Token string
}

// LoggedOut is published after a session is cleared.
type LoggedOut struct {
	Token string
}

func (LoggedIn) Name() string  { return "auth.login" }
func (LoggedOut) Name() string { return "auth.logout" }

// Handler receives published events.
type Handler func(Event)

// Bus delivers events synchronously to subscribers in publish order.
type Bus struct {
	mu       sync.Mutex
	handlers map[int]Handler
	nextID   int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers h and returns a func that removes it.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish hands ev to every current subscriber, oldest first.
func (b *Bus) Publish(ev Event) {
	for _, h := range b.snapshot() {
		h(ev)
	}
}

func (b *Bus) snapshot() []Handler {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Handler, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.handlers[id])
	}
	return out
}
