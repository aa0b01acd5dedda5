package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acme/sales-callback/internal/domain"
)

// CallbackStore holds every callback entry for the lifetime of the process.
// It is append-only: entries are never deleted or reordered, so an entry's
// queue position is stable once assigned. State is memory-only; a restart
// loses the queue, which is an accepted limitation.
type CallbackStore struct {
	mu      sync.Mutex
	entries []domain.CallbackEntry
}

// New creates an empty store.
func New() *CallbackStore {
	return &CallbackStore{}
}

// Append adds an entry and returns its 1-based queue position.
func (s *CallbackStore) Append(entry domain.CallbackEntry) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return len(s.entries)
}

// FindByCallID returns a copy of the entry holding the given provider call
// id. Entries that were never dialed have no call id and never match.
func (s *CallbackStore) FindByCallID(callID string) (domain.CallbackEntry, bool) {
	if callID == "" {
		return domain.CallbackEntry{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].CallID == callID {
			return s.entries[i], true
		}
	}
	return domain.CallbackEntry{}, false
}

// UpdateStatus mutates the status of the entry matching callID. It returns
// false when no entry matches, which callers treat as a no-op.
func (s *CallbackStore) UpdateStatus(callID string, status domain.CallbackStatus) bool {
	if callID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].CallID == callID {
			s.entries[i].Status = status
			s.entries[i].UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// SetDialed transitions a pending entry to processing, recording the
// accepted provider call id and the agent that took the callout.
func (s *CallbackStore) SetDialed(id uuid.UUID, callID, agentNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Status = domain.CallbackStatusProcessing
			s.entries[i].CallID = callID
			s.entries[i].AgentNumber = agentNumber
			s.entries[i].UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// MarkNotified transitions an entry to the notified state after the SMS
// fallback path ran. The entry keeps no call id.
func (s *CallbackStore) MarkNotified(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Status = domain.CallbackStatusNotified
			s.entries[i].UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// Get returns a copy of the entry with the given id.
func (s *CallbackStore) Get(id uuid.UUID) (domain.CallbackEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			return s.entries[i], true
		}
	}
	return domain.CallbackEntry{}, false
}

// Len reports the number of stored entries.
func (s *CallbackStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
