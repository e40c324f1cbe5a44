package observability

import (
	"context"
	"log"

	"social-client/internal/events"
)

type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}

// ForwardAppEvents mirrors application events onto the configured publisher
// under the "app_events.<name>" routing key.
func ForwardAppEvents(ctx context.Context) events.Handler {
	return func(ev events.Event) {
		payload := map[string]interface{}{}
		switch e := ev.(type) {
		case events.LoggedIn:
			payload["user_id"] = e.User.ID
			payload["handle"] = e.User.Handle
		case events.LoggedOut:
		}
		if err := PublishEvent(ctx, "app_events."+ev.Name(), EventEnvelope{
			EventType: "app_events",
			EventName: ev.Name(),
			Payload:   payload,
		}, nil); err != nil {
			log.Printf("app event publish failed: event=%s err=%v", ev.Name(), err)
		}
	}
}
