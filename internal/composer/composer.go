// Package composer drives the message input box: typing notifications and
// optimistic sends against the messaging store.
package composer

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"social-client/internal/backend"
	"social-client/internal/messages"
	"social-client/internal/models"
)

// DefaultTypingTimeout is how long after the last keystroke typing stops.
const DefaultTypingTimeout = time.Second

// ErrEmptyMessage rejects a submit with neither text nor images.
var ErrEmptyMessage = backend.ErrEmptyMessage

// Sender is the slice of the backend the composer talks to.
type Sender interface {
	SendMessage(ctx context.Context, conversationID string, in backend.SendInput) (models.Message, error)
	SetTyping(ctx context.Context, conversationID string, typing bool) error
}

// Composer owns the input state of one conversation.
type Composer struct {
	store          *messages.Store
	api            Sender
	conversationID string
	typingTimeout  time.Duration
	now            func() time.Time
	tempID         func() string

	mu     sync.Mutex
	text   string
	typing bool
	timer  *time.Timer
	gen    int
	closed bool
}

// Option configures a Composer.
type Option func(*Composer)

// WithTypingTimeout sets the idle time before typing=false is sent.
// Non-positive values keep the default.
func WithTypingTimeout(d time.Duration) Option {
	return func(c *Composer) {
		if d > 0 {
			c.typingTimeout = d
		}
	}
}

// WithClock sets the clock used for optimistic timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// WithTempID overrides how provisional message ids are minted.
func WithTempID(fn func() string) Option {
	return func(c *Composer) { c.tempID = fn }
}

// New creates a composer for conversationID.
func New(st *messages.Store, api Sender, conversationID string, opts ...Option) *Composer {
	c := &Composer{
		store:          st,
		api:            api,
		conversationID: conversationID,
		typingTimeout:  DefaultTypingTimeout,
		now:            time.Now,
		tempID:         func() string { return "tmp-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConversationID is the conversation the composer writes to.
func (c *Composer) ConversationID() string { return c.conversationID }

// Text is the current unsent input.
func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Typing reports whether a typing=true notification is outstanding.
func (c *Composer) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// Input records a keystroke. The first keystroke announces typing; each one
// re-arms the timer that announces the stop.
func (c *Composer) Input(ctx context.Context, text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.text = text
	start := !c.typing
	c.typing = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(c.typingTimeout, func() { c.stopTyping(gen) })
	c.mu.Unlock()

	if start {
		c.emitTyping(ctx, true)
	}
}

func (c *Composer) stopTyping(gen int) {
	c.mu.Lock()
	if c.closed || gen != c.gen || !c.typing {
		c.mu.Unlock()
		return
	}
	c.typing = false
	c.timer = nil
	c.mu.Unlock()

	c.emitTyping(context.Background(), false)
}

func (c *Composer) emitTyping(ctx context.Context, typing bool) {
	if err := c.api.SetTyping(ctx, c.conversationID, typing); err != nil {
		log.Printf("set typing failed: conversation=%s typing=%t err=%v", c.conversationID, typing, err)
	}
}

// Submit sends text and image URLs optimistically. A pending message is
// appended right away and later patched to sent or error.
func (c *Composer) Submit(ctx context.Context, text string, images []string) (models.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" && len(images) == 0 {
		return models.Message{}, ErrEmptyMessage
	}

	c.store.Dispatch(messages.SetSending{Sending: true})
	defer c.store.Dispatch(messages.SetSending{Sending: false})

	tempID := c.tempID()
	pending := models.Message{
		ID:             tempID,
		ConversationID: c.conversationID,
		SenderID:       c.store.State().SelfID,
		Text:           trimmed,
		CreatedAt:      c.now(),
		Status:         models.StatusPending,
	}
	in := backend.SendInput{Text: trimmed}
	for i, url := range images {
		pending.Attachments = append(pending.Attachments, models.Attachment{ID: "tmp-att-" + strconv.Itoa(i), Type: "image", URL: url})
		in.Attachments = append(in.Attachments, models.Attachment{Type: "image", URL: url})
	}
	c.store.Dispatch(messages.AddMessage{Message: pending})

	c.mu.Lock()
	c.text = ""
	c.mu.Unlock()

	sent, err := c.api.SendMessage(ctx, c.conversationID, in)
	if err != nil {
		status := models.StatusError
		c.store.Dispatch(messages.UpdateMessage{
			ConversationID: c.conversationID,
			ID:             tempID,
			Patch:          messages.MessagePatch{Status: &status},
		})
		log.Printf("send message failed: conversation=%s temp_id=%s err=%v", c.conversationID, tempID, err)
		msg, _ := c.store.State().Message(c.conversationID, tempID)
		return msg, err
	}

	status := models.StatusSent
	c.store.Dispatch(messages.UpdateMessage{
		ConversationID: c.conversationID,
		ID:             tempID,
		Patch:          messages.MessagePatch{ID: &sent.ID, Status: &status, CreatedAt: &sent.CreatedAt},
	})
	msg, _ := c.store.State().Message(c.conversationID, sent.ID)
	return msg, nil
}

// Close stops the typing timer. No typing callback fires afterwards.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
