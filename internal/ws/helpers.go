package ws

import "github.com/google/uuid"

func newConnID() string {
	return uuid.NewString()
}

func kindOf(room string) string {
	if room == LobbyRoom {
		return "lobby"
	}
	return "conversation"
}

func wsRoutingKey(kind string) string {
	return "ws_events." + kind
}
