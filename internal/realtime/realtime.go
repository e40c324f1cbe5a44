// Package realtime is an in-process event source standing in for a push
// channel. Events are delivered synchronously to handlers in registration order.
package realtime

import (
	"sort"
	"sync"
	"time"

	"social-client/internal/messages"
	"social-client/internal/models"
)

// MessageEvent is an incoming message pushed by a peer.
type MessageEvent struct {
	ConversationID string    `json:"conversation_id"`
	ID             string    `json:"id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

type TypingEvent struct {
	ConversationID string `json:"conversation_id"`
	Typing         bool   `json:"typing"`
}

type PresenceEvent struct {
	PeerID string `json:"peer_id"`
	Online bool   `json:"online"`
}

type handlerSet[E any] struct {
	handlers map[int]func(E)
}

func (s *handlerSet[E]) snapshot() []func(E) {
	ids := make([]int, 0, len(s.handlers))
	for id := range s.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(E), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.handlers[id])
	}
	return out
}

// Bus fans realtime events out to registered handlers.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	message  handlerSet[MessageEvent]
	typing   handlerSet[TypingEvent]
	presence handlerSet[PresenceEvent]
}

func NewBus() *Bus {
	return &Bus{
		message:  handlerSet[MessageEvent]{handlers: map[int]func(MessageEvent){}},
		typing:   handlerSet[TypingEvent]{handlers: map[int]func(TypingEvent){}},
		presence: handlerSet[PresenceEvent]{handlers: map[int]func(PresenceEvent){}},
	}
}

func subscribe[E any](b *Bus, set *handlerSet[E], fn func(E)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	set.handlers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(set.handlers, id)
		b.mu.Unlock()
	}
}

func emit[E any](b *Bus, set *handlerSet[E], ev E) {
	b.mu.Lock()
	handlers := set.snapshot()
	b.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

func (b *Bus) OnMessage(fn func(MessageEvent)) func()   { return subscribe(b, &b.message, fn) }
func (b *Bus) OnTyping(fn func(TypingEvent)) func()     { return subscribe(b, &b.typing, fn) }
func (b *Bus) OnPresence(fn func(PresenceEvent)) func() { return subscribe(b, &b.presence, fn) }

func (b *Bus) SimulateIncomingMessage(ev MessageEvent) { emit(b, &b.message, ev) }
func (b *Bus) SimulateTyping(ev TypingEvent)           { emit(b, &b.typing, ev) }
func (b *Bus) SimulatePresence(ev PresenceEvent)       { emit(b, &b.presence, ev) }

// Bind applies bus events to the messaging store. Incoming messages land as
// delivered. The returned func detaches every handler.
func Bind(b *Bus, st *messages.Store) func() {
	offs := []func(){
		b.OnMessage(func(ev MessageEvent) {
			st.Dispatch(messages.AddMessage{Message: models.Message{
				ID:             ev.ID,
				ConversationID: ev.ConversationID,
				SenderID:       ev.SenderID,
				Text:           ev.Text,
				CreatedAt:      ev.CreatedAt,
				Status:         models.StatusDelivered,
			}})
		}),
		b.OnTyping(func(ev TypingEvent) {
			st.Dispatch(messages.SetTyping{ConversationID: ev.ConversationID, Typing: ev.Typing})
		}),
		b.OnPresence(func(ev PresenceEvent) {
			st.Dispatch(messages.SetPeerOnline{PeerID: ev.PeerID, Online: ev.Online})
		}),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}
