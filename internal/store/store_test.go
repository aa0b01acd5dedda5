package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/acme/sales-callback/internal/domain"
)

func newEntry(phone string) domain.CallbackEntry {
	now := time.Now().UTC()
	return domain.CallbackEntry{
		ID:          uuid.New(),
		PhoneNumber: phone,
		Status:      domain.CallbackStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestAppendAssignsQueuePositions(t *testing.T) {
	s := New()

	if got := s.Append(newEntry("+46701111111")); got != 1 {
		t.Fatalf("first position = %d, want 1", got)
	}
	if got := s.Append(newEntry("+46702222222")); got != 2 {
		t.Fatalf("second position = %d, want 2", got)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
}

func TestSetDialedAndFindByCallID(t *testing.T) {
	s := New()
	entry := newEntry("+46701234567")
	s.Append(entry)

	if !s.SetDialed(entry.ID, "abc123", "+46709999999") {
		t.Fatal("SetDialed returned false for known entry")
	}

	got, ok := s.FindByCallID("abc123")
	if !ok {
		t.Fatal("FindByCallID did not locate dialed entry")
	}
	if got.Status != domain.CallbackStatusProcessing {
		t.Errorf("status = %s, want processing", got.Status)
	}
	if got.AgentNumber != "+46709999999" {
		t.Errorf("agent = %s", got.AgentNumber)
	}
}

func TestFindByCallIDNeverMatchesUndialed(t *testing.T) {
	s := New()
	s.Append(newEntry("+46701234567"))

	if _, ok := s.FindByCallID(""); ok {
		t.Fatal("empty call id must never match")
	}
	if _, ok := s.FindByCallID("nope"); ok {
		t.Fatal("unknown call id matched")
	}
}

func TestUpdateStatus(t *testing.T) {
	s := New()
	entry := newEntry("+46701234567")
	s.Append(entry)
	s.SetDialed(entry.ID, "abc123", "+46709999999")

	if !s.UpdateStatus("abc123", domain.CallbackStatusCompleted) {
		t.Fatal("UpdateStatus returned false for known call id")
	}
	got, _ := s.FindByCallID("abc123")
	if got.Status != domain.CallbackStatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}

	if s.UpdateStatus("unknown", domain.CallbackStatusFailed) {
		t.Fatal("UpdateStatus must be a no-op for unknown call ids")
	}
}

func TestMarkNotifiedKeepsCallIDEmpty(t *testing.T) {
	s := New()
	entry := newEntry("+46701234567")
	s.Append(entry)

	if !s.MarkNotified(entry.ID) {
		t.Fatal("MarkNotified returned false")
	}
	got, ok := s.Get(entry.ID)
	if !ok {
		t.Fatal("Get did not find entry")
	}
	if got.Status != domain.CallbackStatusNotified {
		t.Errorf("status = %s, want notified", got.Status)
	}
	if got.CallID != "" {
		t.Errorf("notified entry must have no call id, got %q", got.CallID)
	}
}
