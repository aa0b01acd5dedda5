package queue

import (
	"time"

	"github.com/google/uuid"
)

// EventKind labels callback lifecycle events.
type EventKind string

const (
	EventCallbackReceived  EventKind = "callback.received"
	EventCallbackDialed    EventKind = "callback.dialed"
	EventCallbackExhausted EventKind = "callback.exhausted"
	EventStatusChanged     EventKind = "callback.status_changed"
)

// Event is published whenever a callback entry changes shape. Consumers are
// downstream analytics; the request path never depends on delivery.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Kind        EventKind `json:"kind"`
	CallbackID  uuid.UUID `json:"callback_id"`
	CallID      string    `json:"call_id,omitempty"`
	PhoneNumber string    `json:"phone_number"`
	AgentNumber string    `json:"agent_number,omitempty"`
	QueueNumber int       `json:"queue_number,omitempty"`
	Status      string    `json:"status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
