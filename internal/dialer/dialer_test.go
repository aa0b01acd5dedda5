package dialer

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/acme/sales-callback/internal/config"
	"github.com/acme/sales-callback/internal/telephony"
	"github.com/acme/sales-callback/pkg/logger"
)

// scriptedCaller fails a fixed number of attempts before accepting.
type scriptedCaller struct {
	failFirst int
	callID    string
	attempts  []telephony.CalloutParams
}

func (c *scriptedCaller) PlaceCall(ctx context.Context, params telephony.CalloutParams) (string, error) {
	c.attempts = append(c.attempts, params)
	if len(c.attempts) <= c.failFirst {
		return "", errors.New("no answer")
	}
	return c.callID, nil
}

func newTestDialer(caller telephony.Caller, agents []string) *Dialer {
	return New(
		caller,
		agents,
		config.ProviderConfig{PhoneNumber: "+46700000000", Locale: "sv-SE"},
		config.DialConfig{},
		"greeting",
		&logger.Logger{Logger: zap.NewNop()},
	)
}

func TestDialFirstSuccessWins(t *testing.T) {
	caller := &scriptedCaller{failFirst: 2, callID: "abc123"}
	agents := []string{"+46701", "+46702", "+46703", "+46704"}
	d := newTestDialer(caller, agents)

	result := d.Dial(context.Background(), "+46701234567")

	if !result.Accepted {
		t.Fatal("expected dial round to be accepted")
	}
	if result.CallID != "abc123" {
		t.Errorf("call id = %q", result.CallID)
	}
	if result.AgentNumber != "+46703" {
		t.Errorf("agent = %q, want third agent", result.AgentNumber)
	}
	if len(caller.attempts) != 3 {
		t.Errorf("attempts = %d, agents after the accepted one must not be dialed", len(caller.attempts))
	}
}

func TestDialExhaustionIsNotAnError(t *testing.T) {
	caller := &scriptedCaller{failFirst: 99}
	d := newTestDialer(caller, []string{"+46701", "+46702"})

	result := d.Dial(context.Background(), "+46701234567")

	if result.Accepted {
		t.Fatal("expected exhaustion")
	}
	if result.CallID != "" || result.AgentNumber != "" {
		t.Errorf("exhausted result must be zero, got %+v", result)
	}
	if len(caller.attempts) != 2 {
		t.Errorf("attempts = %d, want 2", len(caller.attempts))
	}
}

func TestDialPassesCalloutParams(t *testing.T) {
	caller := &scriptedCaller{callID: "x"}
	d := newTestDialer(caller, []string{"+46701"})

	d.Dial(context.Background(), "+46701234567")

	got := caller.attempts[0]
	if got.Destination != "+46701234567" {
		t.Errorf("destination = %q, customer must be the call target", got.Destination)
	}
	if got.CLI != "+46700000000" {
		t.Errorf("cli = %q", got.CLI)
	}
	if got.Agent != "+46701" {
		t.Errorf("agent = %q", got.Agent)
	}
	if got.Text != "greeting" || got.Locale != "sv-SE" {
		t.Errorf("unexpected params: %+v", got)
	}
}

func TestDialStopsWhenContextCancelled(t *testing.T) {
	caller := &scriptedCaller{failFirst: 99}
	d := newTestDialer(caller, []string{"+46701", "+46702", "+46703"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := d.Dial(ctx, "+46701234567")
	if result.Accepted {
		t.Fatal("cancelled round must not be accepted")
	}
	if len(caller.attempts) != 0 {
		t.Errorf("attempts = %d, want 0 after cancellation", len(caller.attempts))
	}
}
