package messages

import (
	"social-client/internal/models"
	"social-client/internal/store"
)

// DefaultSelfID identifies messages authored by the local user.
const DefaultSelfID = "me"

// State is the normalized messaging state. Values are treated as immutable:
// the reducer always returns fresh slices and maps for anything it changes.
type State struct {
	SelfID               string
	Conversations        []models.Conversation
	ByConversation       map[string][]models.Message
	ActiveID             string
	LoadingConversations bool
	LoadingMessages      bool
	Sending              bool
}

// Store is the messaging store type used across the application.
type Store = store.Store[State, Action]

// NewState returns an empty state for the given self identity.
func NewState(selfID string) State {
	if selfID == "" {
		selfID = DefaultSelfID
	}
	return State{
		SelfID:         selfID,
		Conversations:  []models.Conversation{},
		ByConversation: map[string][]models.Message{},
	}
}

// NewStore builds a messaging store.
func NewStore(selfID string) *Store {
	return store.New[State, Action](NewState(selfID), Reduce)
}

// Conversation looks up a conversation by id.
func (s State) Conversation(id string) (models.Conversation, bool) {
	if i := indexOfConversation(s.Conversations, id); i >= 0 {
		return s.Conversations[i], true
	}
	return models.Conversation{}, false
}

// Messages returns the ordered messages of a conversation.
func (s State) Messages(conversationID string) []models.Message {
	return s.ByConversation[conversationID]
}

// Message looks up a message by id within a conversation.
func (s State) Message(conversationID, id string) (models.Message, bool) {
	msgs := s.ByConversation[conversationID]
	if i := indexOfMessage(msgs, id); i >= 0 {
		return msgs[i], true
	}
	return models.Message{}, false
}

// TotalUnread sums unread counts across all conversations.
func (s State) TotalUnread() int {
	total := 0
	for _, c := range s.Conversations {
		total += c.UnreadCount
	}
	return total
}
