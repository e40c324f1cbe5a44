package backend

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"social-client/internal/models"
	"social-client/internal/observability"
)

var tracer = otel.Tracer("social-client/backend")

// Mock is an in-memory API with simulated network latency.
type Mock struct {
	mu            sync.Mutex
	delay         time.Duration
	selfID        string
	now           func() time.Time
	newID         func() string
	conversations []models.Conversation
	messages      map[string][]models.Message
	users         []models.User
	posts         []SearchPost
	feed          []models.Post
	following     map[string]bool
	liked         map[string]bool
	reposted      map[string]bool
}

type Option func(*Mock)

// WithDelay sets the simulated latency of every call.
func WithDelay(d time.Duration) Option {
	return func(m *Mock) { m.delay = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Mock) { m.now = now }
}

// WithSelfID sets the sender id stamped on sent messages.
func WithSelfID(id string) Option {
	return func(m *Mock) { m.selfID = id }
}

// WithIDGenerator overrides how message ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(m *Mock) { m.newID = fn }
}

// NewMock builds a backend seeded with demo users, conversations and posts.
func NewMock(opts ...Option) *Mock {
	m := &Mock{
		delay:     200 * time.Millisecond,
		selfID:    "me",
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
		following: map[string]bool{},
		liked:     map[string]bool{},
		reposted:  map[string]bool{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.seed()
	return m
}

var _ API = (*Mock)(nil)

func (m *Mock) seed() {
	now := m.now()
	m.users = []models.User{
		{ID: "u1", Name: "Jane Doe", Handle: "jane", AvatarURL: "/images/logo.png"},
		{ID: "u2", Name: "Dev Guy", Handle: "devguy", AvatarURL: "/images/logo.png", IsFollowing: true},
		{ID: "u3", Name: "Open Source", Handle: "oss"},
	}
	m.following["u2"] = true

	m.posts = []SearchPost{
		{ID: "p1", Content: "Building a social app UI with a reducer store.", CreatedAt: now, Images: []string{"/images/logo.png"}, Author: m.users[0]},
		{ID: "p2", Content: "Dark mode support via CSS variables.", CreatedAt: now, Author: m.users[1]},
	}
	for i, p := range m.posts {
		m.feed = append(m.feed, models.Post{
			ID:        p.ID,
			Author:    models.Author{Name: p.Author.Name, Handle: p.Author.Handle, AvatarURL: p.Author.AvatarURL},
			Content:   p.Content,
			CreatedAt: p.CreatedAt.Add(-time.Duration(i) * time.Hour),
			Images:    p.Images,
			Metrics:   models.PostMetrics{Replies: 2 + i, Reposts: 1, Likes: 10 * (i + 1), Views: 120 * (i + 1)},
		})
	}

	m.conversations = []models.Conversation{
		{ID: "c1", Peer: models.Peer{ID: "u1", Name: "Jane Doe", Handle: "jane", AvatarURL: "/images/logo.png", Online: true}, LastMessageAt: now, UnreadCount: 1},
		{ID: "c2", Peer: models.Peer{ID: "u2", Name: "Dev Guy", Handle: "devguy", AvatarURL: "/images/logo.png"}, LastMessageAt: now.Add(-24 * time.Hour)},
	}
	m.messages = map[string][]models.Message{
		"c1": {
			{ID: "m1", ConversationID: "c1", SenderID: "u1", Text: "Hey there!", CreatedAt: now.Add(-time.Hour), Status: models.StatusRead},
			{ID: "m2", ConversationID: "c1", SenderID: m.selfID, Text: "Hi! What's up?", CreatedAt: now.Add(-58 * time.Minute), Status: models.StatusRead},
			{ID: "m3", ConversationID: "c1", SenderID: "u1", Text: "Working on the UI now.", CreatedAt: now.Add(-time.Minute), Status: models.StatusDelivered},
		},
		"c2": {
			{ID: "m4", ConversationID: "c2", SenderID: m.selfID, Text: "Did you check the PR?", CreatedAt: now.Add(-48 * time.Hour), Status: models.StatusRead},
		},
	}
}

// Load puts conversations and their threads in front of the seeded ones,
// replacing any with the same id.
func (m *Mock) Load(convs []models.Conversation, threads map[string][]models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.conversations[:0:0]
	for _, c := range m.conversations {
		replaced := false
		for _, n := range convs {
			if n.ID == c.ID {
				replaced = true
				break
			}
		}
		if !replaced {
			kept = append(kept, c)
		}
	}
	m.conversations = append(append([]models.Conversation{}, convs...), kept...)
	for id, msgs := range threads {
		m.messages[id] = cloneMessages(msgs)
	}
}

// wait simulates latency and starts a span for the operation.
func (m *Mock) wait(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span, error) {
	ctx, span := tracer.Start(ctx, "backend."+op, trace.WithAttributes(attrs...))
	if m.delay <= 0 {
		return ctx, span, ctx.Err()
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		return ctx, span, ctx.Err()
	case <-t.C:
		return ctx, span, nil
	}
}

func (m *Mock) ListConversations(ctx context.Context) (_ []models.Conversation, err error) {
	defer func(start time.Time) { observability.ObserveBackendCall("list_conversations", start, err) }(time.Now())
	_, span, err := m.wait(ctx, "ListConversations")
	defer span.End()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Conversation, len(m.conversations))
	copy(out, m.conversations)
	return out, nil
}

// ListMessages returns up to opts.Limit messages older than opts.Before,
// oldest first.
func (m *Mock) ListMessages(ctx context.Context, conversationID string, opts ListOptions) (_ []models.Message, err error) {
	defer func(start time.Time) { observability.ObserveBackendCall("list_messages", start, err) }(time.Now())
	_, span, err := m.wait(ctx, "ListMessages", attribute.String("conversation.id", conversationID))
	defer span.End()
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	m.mu.Lock()
	all := cloneMessages(m.messages[conversationID])
	m.mu.Unlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	page := make([]models.Message, 0, limit)
	for _, msg := range all {
		if !opts.Before.IsZero() && !msg.CreatedAt.Before(opts.Before) {
			continue
		}
		page = append(page, msg)
		if len(page) == limit {
			break
		}
	}
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}

func (m *Mock) SendMessage(ctx context.Context, conversationID string, in SendInput) (_ models.Message, err error) {
	defer func(start time.Time) { observability.ObserveBackendCall("send_message", start, err) }(time.Now())
	if strings.TrimSpace(in.Text) == "" && len(in.Attachments) == 0 {
		return models.Message{}, ErrEmptyMessage
	}
	_, span, err := m.wait(ctx, "SendMessage", attribute.String("conversation.id", conversationID))
	defer span.End()
	if err != nil {
		return models.Message{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	msg := models.Message{
		ID:             m.newID(),
		ConversationID: conversationID,
		SenderID:       m.selfID,
		Text:           in.Text,
		CreatedAt:      m.now(),
		Status:         models.StatusSent,
	}
	for i, a := range in.Attachments {
		msg.Attachments = append(msg.Attachments, models.Attachment{ID: "att-" + strconv.Itoa(i), Type: a.Type, URL: a.URL})
	}
	m.messages[conversationID] = append(m.messages[conversationID], msg)
	if i := m.conversationIndex(conversationID); i >= 0 {
		m.conversations[i].LastMessageAt = msg.CreatedAt
	}
	return cloneMessage(msg), nil
}

func (m *Mock) MarkConversationRead(ctx context.Context, conversationID string) (err error) {
	defer func(start time.Time) { observability.ObserveBackendCall("mark_read", start, err) }(time.Now())
	_, span, err := m.wait(ctx, "MarkConversationRead", attribute.String("conversation.id", conversationID))
	defer span.End()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.conversationIndex(conversationID); i >= 0 {
		m.conversations[i].UnreadCount = 0
	}
	return nil
}

func (m *Mock) SetTyping(ctx context.Context, conversationID string, typing bool) (err error) {
	defer func(start time.Time) { observability.ObserveBackendCall("set_typing", start, err) }(time.Now())
	_, span, err := m.wait(ctx, "SetTyping", attribute.String("conversation.id", conversationID), attribute.Bool("typing", typing))
	defer span.End()
	return err
}

func (m *Mock) GetOrCreateConversationWithUser(ctx context.Context, userID string) (_ models.Conversation, err error) {
	defer func(start time.Time) { observability.ObserveBackendCall("open_conversation", start, err) }(time.Now())
	_, span, err := m.wait(ctx, "GetOrCreateConversationWithUser", attribute.String("user.id", userID))
	defer span.End()
	if err != nil {
		return models.Conversation{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.conversations {
		if c.Peer.ID == userID {
			return c, nil
		}
	}

	peer := models.Peer{ID: userID, Name: "User", Handle: "user"}
	for _, u := range m.users {
		if u.ID == userID {
			peer = models.Peer{ID: u.ID, Name: u.Name, Handle: u.Handle, AvatarURL: u.AvatarURL}
			break
		}
	}
	c := models.Conversation{ID: "c" + m.newID(), Peer: peer, LastMessageAt: m.now()}
	m.conversations = append([]models.Conversation{c}, m.conversations...)
	m.messages[c.ID] = []models.Message{}
	return c, nil
}

// SearchAll matches people by name or handle and posts by content or author
// handle. Matching is case-insensitive.
func (m *Mock) SearchAll(ctx context.Context, query string) (_ SearchResult, err error) {
	defer func(start time.Time) { observability.ObserveBackendCall("search", start, err) }(time.Now())
	_, span, err := m.wait(ctx, "SearchAll")
	defer span.End()
	res := SearchResult{Users: []models.User{}, Posts: []SearchPost{}}
	if err != nil {
		return res, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return res, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Handle), q) {
			u.IsFollowing = m.following[u.ID]
			res.Users = append(res.Users, u)
		}
	}
	for _, p := range m.posts {
		if strings.Contains(strings.ToLower(p.Content), q) || strings.Contains(strings.ToLower(p.Author.Handle), q) {
			res.Posts = append(res.Posts, p)
		}
	}
	return res, nil
}

func (m *Mock) ListPosts(ctx context.Context) (_ []models.Post, err error) {
	defer func(start time.Time) { observability.ObserveBackendCall("list_posts", start, err) }(time.Now())
	_, span, err := m.wait(ctx, "ListPosts")
	defer span.End()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Post, len(m.feed))
	copy(out, m.feed)
	for i := range out {
		out[i].Liked = m.liked[out[i].ID]
		out[i].Reposted = m.reposted[out[i].ID]
	}
	return out, nil
}

func (m *Mock) FollowUser(ctx context.Context, userID string) error {
	return m.setFlag(ctx, "FollowUser", m.following, userID, true)
}

func (m *Mock) UnfollowUser(ctx context.Context, userID string) error {
	return m.setFlag(ctx, "UnfollowUser", m.following, userID, false)
}

func (m *Mock) LikePost(ctx context.Context, postID string) error {
	return m.toggleFlag(ctx, "LikePost", m.liked, postID)
}

func (m *Mock) RepostPost(ctx context.Context, postID string) error {
	return m.toggleFlag(ctx, "RepostPost", m.reposted, postID)
}

func (m *Mock) setFlag(ctx context.Context, op string, flags map[string]bool, id string, value bool) (err error) {
	defer func(start time.Time) { observability.ObserveBackendCall(strings.ToLower(op), start, err) }(time.Now())
	_, span, err := m.wait(ctx, op, attribute.String("target.id", id))
	defer span.End()
	if err != nil {
		return err
	}
	m.mu.Lock()
	flags[id] = value
	m.mu.Unlock()
	return nil
}

func (m *Mock) toggleFlag(ctx context.Context, op string, flags map[string]bool, id string) (err error) {
	defer func(start time.Time) { observability.ObserveBackendCall(strings.ToLower(op), start, err) }(time.Now())
	_, span, err := m.wait(ctx, op, attribute.String("post.id", id))
	defer span.End()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasPost(id) {
		return ErrPostNotFound
	}
	flags[id] = !flags[id]
	return nil
}

func (m *Mock) hasPost(id string) bool {
	for _, p := range m.feed {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (m *Mock) conversationIndex(id string) int {
	for i, c := range m.conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneMessage(msg models.Message) models.Message {
	if msg.Attachments != nil {
		msg.Attachments = append([]models.Attachment(nil), msg.Attachments...)
	}
	return msg
}

func cloneMessages(msgs []models.Message) []models.Message {
	out := make([]models.Message, len(msgs))
	for i, msg := range msgs {
		out[i] = cloneMessage(msg)
	}
	return out
}
