package messages

import (
	"sort"

	"social-client/internal/models"
)

// Reduce applies action to state. Unknown actions and missing ids leave the
// state unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetConversations:
		convs := dedupeConversations(a.Conversations)
		sortConversations(convs)
		state.Conversations = convs

	case UpsertConversation:
		return upsertConversation(state, a.Conversation)

	case SetActive:
		state.ActiveID = a.ID
		if a.ID == "" {
			return state
		}
		if i := indexOfConversation(state.Conversations, a.ID); i >= 0 && state.Conversations[i].UnreadCount != 0 {
			convs := cloneConversations(state.Conversations)
			convs[i].UnreadCount = 0
			state.Conversations = convs
		}

	case SetMessages:
		if a.ConversationID == "" {
			return state
		}
		msgs := dedupeMessages(a.Messages)
		sortMessages(msgs)
		state.ByConversation = withMessages(state.ByConversation, a.ConversationID, msgs)

	case PrependMessages:
		return prependMessages(state, a)

	case AddMessage:
		return addMessage(state, a.Message)

	case UpdateMessage:
		return updateMessage(state, a)

	case SetTyping:
		i := indexOfConversation(state.Conversations, a.ConversationID)
		if i < 0 || state.Conversations[i].Typing == a.Typing {
			return state
		}
		convs := cloneConversations(state.Conversations)
		convs[i].Typing = a.Typing
		state.Conversations = convs

	case SetPeerOnline:
		var convs []models.Conversation
		for i, c := range state.Conversations {
			if c.Peer.ID != a.PeerID || c.Peer.Online == a.Online {
				continue
			}
			if convs == nil {
				convs = cloneConversations(state.Conversations)
			}
			convs[i].Peer.Online = a.Online
		}
		if convs != nil {
			state.Conversations = convs
		}

	case MarkRead:
		return markRead(state, a.ConversationID)

	case SetLoadingConversations:
		state.LoadingConversations = a.Loading
	case SetLoadingMessages:
		state.LoadingMessages = a.Loading
	case SetSending:
		state.Sending = a.Sending
	}
	return state
}

func upsertConversation(state State, up ConversationUpsert) State {
	if up.ID == "" {
		return state
	}
	convs := cloneConversations(state.Conversations)
	if i := indexOfConversation(convs, up.ID); i >= 0 {
		mergeConversation(&convs[i], up)
	} else {
		c := models.Conversation{ID: up.ID}
		mergeConversation(&c, up)
		convs = append([]models.Conversation{c}, convs...)
	}
	sortConversations(convs)
	state.Conversations = convs
	return state
}

func mergeConversation(c *models.Conversation, up ConversationUpsert) {
	if up.Peer != nil {
		c.Peer = *up.Peer
	}
	if up.LastMessageAt != nil {
		c.LastMessageAt = *up.LastMessageAt
	}
	if up.UnreadCount != nil {
		c.UnreadCount = max(*up.UnreadCount, 0)
	}
	if up.Typing != nil {
		c.Typing = *up.Typing
	}
}

func prependMessages(state State, a PrependMessages) State {
	if a.ConversationID == "" {
		return state
	}
	cur := state.ByConversation[a.ConversationID]
	seen := make(map[string]struct{}, len(cur))
	for _, m := range cur {
		seen[m.ID] = struct{}{}
	}

	merged := make([]models.Message, 0, len(a.Messages)+len(cur))
	for _, m := range dedupeMessages(a.Messages) {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		merged = append(merged, m)
	}
	merged = append(merged, cur...)
	sortMessages(merged)
	state.ByConversation = withMessages(state.ByConversation, a.ConversationID, merged)
	return state
}

func addMessage(state State, m models.Message) State {
	if m.ConversationID == "" {
		return state
	}
	msgs := cloneMessages(state.ByConversation[m.ConversationID])
	isNew := true
	if i := indexOfMessage(msgs, m.ID); i >= 0 {
		msgs[i] = m
		isNew = false
	} else {
		msgs = append(msgs, m)
	}
	sortMessages(msgs)
	state.ByConversation = withMessages(state.ByConversation, m.ConversationID, msgs)

	i := indexOfConversation(state.Conversations, m.ConversationID)
	if i < 0 {
		return state
	}
	convs := cloneConversations(state.Conversations)
	convs[i].LastMessageAt = m.CreatedAt
	if isNew && state.ActiveID != m.ConversationID && m.SenderID != state.SelfID {
		convs[i].UnreadCount++
	}
	sortConversations(convs)
	state.Conversations = convs
	return state
}

func updateMessage(state State, a UpdateMessage) State {
	cur := state.ByConversation[a.ConversationID]
	i := indexOfMessage(cur, a.ID)
	if i < 0 {
		return state
	}
	msgs := cloneMessages(cur)
	m := msgs[i]
	p := a.Patch
	resort := false

	if p.ID != nil && *p.ID != "" && *p.ID != m.ID {
		// The confirmed id may already be present from a realtime echo.
		if j := indexOfMessage(msgs, *p.ID); j >= 0 {
			msgs = append(msgs[:j], msgs[j+1:]...)
			if j < i {
				i--
			}
		}
		m.ID = *p.ID
	}
	if p.Text != nil {
		m.Text = *p.Text
	}
	if p.CreatedAt != nil && !p.CreatedAt.Equal(m.CreatedAt) {
		m.CreatedAt = *p.CreatedAt
		resort = true
	}
	if p.Status != nil && m.Status.CanTransition(*p.Status) {
		m.Status = *p.Status
	}
	if p.Attachments != nil {
		m.Attachments = p.Attachments
	}
	msgs[i] = m
	if resort {
		sortMessages(msgs)
	}
	state.ByConversation = withMessages(state.ByConversation, a.ConversationID, msgs)
	return state
}

func markRead(state State, conversationID string) State {
	if i := indexOfConversation(state.Conversations, conversationID); i >= 0 && state.Conversations[i].UnreadCount != 0 {
		convs := cloneConversations(state.Conversations)
		convs[i].UnreadCount = 0
		state.Conversations = convs
	}

	cur := state.ByConversation[conversationID]
	var msgs []models.Message
	for i, m := range cur {
		if m.Status != models.StatusDelivered {
			continue
		}
		if msgs == nil {
			msgs = cloneMessages(cur)
		}
		msgs[i].Status = models.StatusRead
	}
	if msgs != nil {
		state.ByConversation = withMessages(state.ByConversation, conversationID, msgs)
	}
	return state
}

func sortConversations(convs []models.Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].LastMessageAt.After(convs[j].LastMessageAt)
	})
}

func sortMessages(msgs []models.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}

func indexOfConversation(convs []models.Conversation, id string) int {
	for i, c := range convs {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func indexOfMessage(msgs []models.Message, id string) int {
	for i, m := range msgs {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func cloneConversations(convs []models.Conversation) []models.Conversation {
	out := make([]models.Conversation, len(convs))
	copy(out, convs)
	return out
}

func cloneMessages(msgs []models.Message) []models.Message {
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}

// dedupeConversations copies convs keeping the last occurrence of each id.
func dedupeConversations(convs []models.Conversation) []models.Conversation {
	pos := make(map[string]int, len(convs))
	out := make([]models.Conversation, 0, len(convs))
	for _, c := range convs {
		c.UnreadCount = max(c.UnreadCount, 0)
		if i, ok := pos[c.ID]; ok {
			out[i] = c
			continue
		}
		pos[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}

// dedupeMessages copies msgs keeping the last occurrence of each id.
func dedupeMessages(msgs []models.Message) []models.Message {
	pos := make(map[string]int, len(msgs))
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if i, ok := pos[m.ID]; ok {
			out[i] = m
			continue
		}
		pos[m.ID] = len(out)
		out = append(out, m)
	}
	return out
}

func withMessages(byConv map[string][]models.Message, conversationID string, msgs []models.Message) map[string][]models.Message {
	out := make(map[string][]models.Message, len(byConv)+1)
	for k, v := range byConv {
		out[k] = v
	}
	out[conversationID] = msgs
	return out
}
