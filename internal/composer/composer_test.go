package composer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-client/internal/backend"
	"social-client/internal/messages"
	"social-client/internal/mocks"
	"social-client/internal/models"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestComposer(api *mocks.APIMock, opts ...Option) (*Composer, *messages.Store) {
	st := messages.NewStore("me")
	st.Dispatch(messages.SetConversations{Conversations: []models.Conversation{
		{ID: "c1", Peer: models.Peer{ID: "u1"}, LastMessageAt: fixedNow.Add(-time.Hour)},
	}})
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithTempID(func() string { return "tmp-1" }),
	}, opts...)
	return New(st, api, "c1", opts...), st
}

func TestSubmitRejectsEmpty(t *testing.T) {
	api := new(mocks.APIMock)
	c, st := newTestComposer(api)

	_, err := c.Submit(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, st.State().Messages("c1"))
	api.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitSuccessPatchesPendingMessage(t *testing.T) {
	api := new(mocks.APIMock)
	c, st := newTestComposer(api)

	sentAt := fixedNow.Add(time.Second)
	var sawPending bool
	st.Subscribe(func(s messages.State, a messages.Action) {
		if add, ok := a.(messages.AddMessage); ok {
			sawPending = add.Message.Status == models.StatusPending && s.Sending
		}
	})
	api.On("SendMessage", mock.Anything, "c1", backend.SendInput{
		Text:        "hello",
		Attachments: []models.Attachment{{Type: "image", URL: "/x.png"}},
	}).Return(models.Message{ID: "srv-1", ConversationID: "c1", CreatedAt: sentAt, Status: models.StatusSent}, nil).Once()

	msg, err := c.Submit(context.Background(), "  hello ", []string{"/x.png"})
	require.NoError(t, err)
	assert.True(t, sawPending)

	assert.Equal(t, "srv-1", msg.ID)
	assert.Equal(t, models.StatusSent, msg.Status)
	assert.Equal(t, sentAt, msg.CreatedAt)
	assert.Equal(t, "tmp-att-0", msg.Attachments[0].ID)

	state := st.State()
	require.Len(t, state.Messages("c1"), 1)
	_, ok := state.Message("c1", "tmp-1")
	assert.False(t, ok)
	assert.False(t, state.Sending)
	api.AssertExpectations(t)
}

func TestSubmitFailureMarksError(t *testing.T) {
	api := new(mocks.APIMock)
	c, st := newTestComposer(api)

	api.On("SendMessage", mock.Anything, "c1", mock.Anything).Return(nil, assert.AnError).Once()

	msg, err := c.Submit(context.Background(), "hi", nil)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "tmp-1", msg.ID)
	assert.Equal(t, models.StatusError, msg.Status)
	assert.False(t, st.State().Sending)
	assert.Equal(t, "", c.Text())
}

func TestInputEmitsTypingOnceThenStops(t *testing.T) {
	api := new(mocks.APIMock)
	c, _ := newTestComposer(api, WithTypingTimeout(30*time.Millisecond))
	defer c.Close()

	stopped := make(chan struct{})
	api.On("SetTyping", mock.Anything, "c1", true).Return(nil).Once()
	api.On("SetTyping", mock.Anything, "c1", false).Return(nil).Once().Run(func(mock.Arguments) { close(stopped) })

	c.Input(context.Background(), "h")
	c.Input(context.Background(), "he")
	c.Input(context.Background(), "hey")
	assert.True(t, c.Typing())
	assert.Equal(t, "hey", c.Text())

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("typing=false was never sent")
	}
	assert.False(t, c.Typing())
	api.AssertExpectations(t)
}

func TestCloseCancelsTypingTimer(t *testing.T) {
	api := new(mocks.APIMock)
	c, _ := newTestComposer(api, WithTypingTimeout(20*time.Millisecond))

	api.On("SetTyping", mock.Anything, "c1", true).Return(nil).Once()
	c.Input(context.Background(), "x")
	c.Close()

	time.Sleep(60 * time.Millisecond)
	api.AssertNotCalled(t, "SetTyping", mock.Anything, "c1", false)
	c.Input(context.Background(), "ignored")
	assert.Equal(t, "x", c.Text())
}
