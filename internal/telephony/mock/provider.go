package mock

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acme/sales-callback/internal/config"
	"github.com/acme/sales-callback/internal/telephony"
)

// Provider simulates the voice and SMS vendor for local development.
type Provider struct {
	successRate float64
	maxDelay    time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewProvider constructs a mock provider with deterministic randomness.
func NewProvider(cfg config.ProviderConfig) *Provider {
	maxDelay := cfg.RequestTimeout / 4
	if maxDelay <= 0 {
		maxDelay = time.Second
	}
	return &Provider{
		successRate: 0.8,
		maxDelay:    maxDelay,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PlaceCall simulates a callout attempt.
func (p *Provider) PlaceCall(ctx context.Context, params telephony.CalloutParams) (string, error) {
	delay, accepted := p.roll()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(delay):
	}

	if !accepted {
		return "", fmt.Errorf("mock: agent %s declined callout", params.Agent)
	}
	return uuid.NewString(), nil
}

// SendSMS simulates a message send; it always succeeds.
func (p *Provider) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (p *Provider) roll() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delay := time.Duration(p.rng.Int63n(int64(p.maxDelay) + 1))
	return delay, p.rng.Float64() <= p.successRate
}
