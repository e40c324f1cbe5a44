package backend

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-client/internal/models"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestMock() *Mock {
	n := 0
	return NewMock(
		WithDelay(0),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func TestListConversationsSeeded(t *testing.T) {
	m := newTestMock()
	convs, err := m.ListConversations(context.Background())
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "c1", convs[0].ID)
	assert.Equal(t, 1, convs[0].UnreadCount)
	assert.True(t, convs[0].Peer.Online)
}

func TestListMessagesAscending(t *testing.T) {
	m := newTestMock()
	msgs, err := m.ListMessages(context.Background(), "c1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
}

func TestListMessagesPagesBackwards(t *testing.T) {
	m := newTestMock()
	page, err := m.ListMessages(context.Background(), "c1", ListOptions{Limit: 1, Before: fixedNow.Add(-time.Minute)})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "m2", page[0].ID)

	older, err := m.ListMessages(context.Background(), "c1", ListOptions{Before: page[0].CreatedAt})
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.Equal(t, "m1", older[0].ID)
}

func TestListMessagesUnknownConversationIsEmpty(t *testing.T) {
	m := newTestMock()
	msgs, err := m.ListMessages(context.Background(), "nope", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSendMessageStoresAndBumpsConversation(t *testing.T) {
	m := newTestMock()
	msg, err := m.SendMessage(context.Background(), "c2", SendInput{
		Text:        "hello",
		Attachments: []models.Attachment{{Type: "image", URL: "/a.png"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", msg.ID)
	assert.Equal(t, "me", msg.SenderID)
	assert.Equal(t, models.StatusSent, msg.Status)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "att-0", msg.Attachments[0].ID)

	msgs, err := m.ListMessages(context.Background(), "c2", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "id-1", msgs[len(msgs)-1].ID)

	convs, err := m.ListConversations(context.Background())
	require.NoError(t, err)
	for _, c := range convs {
		if c.ID == "c2" {
			assert.Equal(t, fixedNow, c.LastMessageAt)
		}
	}
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	m := newTestMock()
	_, err := m.SendMessage(context.Background(), "c1", SendInput{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestMarkConversationRead(t *testing.T) {
	m := newTestMock()
	require.NoError(t, m.MarkConversationRead(context.Background(), "c1"))
	convs, _ := m.ListConversations(context.Background())
	assert.Equal(t, 0, convs[0].UnreadCount)
}

func TestGetOrCreateConversationWithUser(t *testing.T) {
	m := newTestMock()
	existing, err := m.GetOrCreateConversationWithUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "c1", existing.ID)

	created, err := m.GetOrCreateConversationWithUser(context.Background(), "u3")
	require.NoError(t, err)
	assert.Equal(t, "Open Source", created.Peer.Name)

	again, err := m.GetOrCreateConversationWithUser(context.Background(), "u3")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	convs, _ := m.ListConversations(context.Background())
	assert.Equal(t, created.ID, convs[0].ID)
}

func TestSearchAll(t *testing.T) {
	m := newTestMock()
	res, err := m.SearchAll(context.Background(), "DEV")
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "u2", res.Users[0].ID)
	assert.True(t, res.Users[0].IsFollowing)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "p2", res.Posts[0].ID)

	empty, err := m.SearchAll(context.Background(), "  ")
	require.NoError(t, err)
	assert.NotNil(t, empty.Users)
	assert.Empty(t, empty.Users)
	assert.Empty(t, empty.Posts)
}

func TestFollowAndLike(t *testing.T) {
	m := newTestMock()
	ctx := context.Background()
	require.NoError(t, m.UnfollowUser(ctx, "u2"))
	require.NoError(t, m.FollowUser(ctx, "u1"))

	res, _ := m.SearchAll(ctx, "jane")
	assert.True(t, res.Users[0].IsFollowing)

	require.NoError(t, m.LikePost(ctx, "p1"))
	require.NoError(t, m.RepostPost(ctx, "p2"))
	assert.ErrorIs(t, m.LikePost(ctx, "missing"), ErrPostNotFound)

	posts, err := m.ListPosts(ctx)
	require.NoError(t, err)
	assert.True(t, posts[0].Liked)
	assert.True(t, posts[1].Reposted)

	require.NoError(t, m.LikePost(ctx, "p1"))
	posts, _ = m.ListPosts(ctx)
	assert.False(t, posts[0].Liked)
}

func TestDelayHonoursContext(t *testing.T) {
	m := NewMock(WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.ListConversations(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadPrependsConversations(t *testing.T) {
	m := newTestMock()
	m.Load([]models.Conversation{{ID: "c-x", Peer: models.Peer{ID: "x"}}, {ID: "c2", Peer: models.Peer{ID: "u2", Name: "Renamed"}}},
		map[string][]models.Message{"c-x": {{ID: "m-c-x-0", ConversationID: "c-x", CreatedAt: fixedNow}}})

	convs, err := m.ListConversations(context.Background())
	require.NoError(t, err)
	require.Len(t, convs, 3)
	assert.Equal(t, []string{"c-x", "c2", "c1"}, []string{convs[0].ID, convs[1].ID, convs[2].ID})
	assert.Equal(t, "Renamed", convs[1].Peer.Name)

	msgs, err := m.ListMessages(context.Background(), "c-x", ListOptions{})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}
