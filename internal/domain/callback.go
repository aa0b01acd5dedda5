package domain

import (
	"time"

	"github.com/google/uuid"
)

// CallbackStatus enumerates lifecycle states of a callback entry.
type CallbackStatus string

const (
	CallbackStatusPending    CallbackStatus = "pending"
	CallbackStatusProcessing CallbackStatus = "processing"
	CallbackStatusCompleted  CallbackStatus = "completed"
	CallbackStatusFailed     CallbackStatus = "failed"
	// CallbackStatusNotified marks entries that ended on the SMS fallback
	// path: no agent answered and no call is in flight.
	CallbackStatusNotified CallbackStatus = "notified"
)

// CallbackEntry models a single customer callback request.
//
// CallID is empty until the provider accepts a callout; it is non-empty
// exactly when Status is processing, completed or failed. PhoneNumber is
// always the normalized international form.
type CallbackEntry struct {
	ID          uuid.UUID
	PhoneNumber string
	Status      CallbackStatus
	CallID      string
	AgentNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Provider webhook status vocabulary.
const (
	ProviderStatusCompleted = "COMPLETED"
	ProviderStatusFailed    = "FAILED"
	ProviderStatusBusy      = "BUSY"
	ProviderStatusNoAnswer  = "NO_ANSWER"
)

// StatusFromProvider maps the provider webhook vocabulary onto internal
// statuses. Unknown values are ignored by the caller, not treated as errors.
func StatusFromProvider(raw string) (CallbackStatus, bool) {
	switch raw {
	case ProviderStatusCompleted:
		return CallbackStatusCompleted, true
	case ProviderStatusFailed, ProviderStatusBusy, ProviderStatusNoAnswer:
		return CallbackStatusFailed, true
	default:
		return "", false
	}
}
