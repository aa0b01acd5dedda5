package dialer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/acme/sales-callback/internal/config"
	"github.com/acme/sales-callback/internal/telephony"
	apperrors "github.com/acme/sales-callback/pkg/errors"
	"github.com/acme/sales-callback/pkg/logger"
)

// Result captures the outcome of a dial-out round.
type Result struct {
	Accepted    bool
	CallID      string
	AgentNumber string
}

// Dialer tries each agent number in priority order until the provider
// accepts a callout. First acceptance wins; remaining agents are skipped.
type Dialer struct {
	caller         telephony.Caller
	agents         []string
	cli            string
	locale         string
	greeting       string
	attemptTimeout time.Duration
	overallTimeout time.Duration
	logger         *logger.Logger
}

// New constructs a dialer. Timeouts fall back to 10s per attempt and 45s for
// the whole round when unset.
func New(caller telephony.Caller, agents []string, providerCfg config.ProviderConfig, dialCfg config.DialConfig, greeting string, lg *logger.Logger) *Dialer {
	attempt := dialCfg.AttemptTimeout
	if attempt <= 0 {
		attempt = 10 * time.Second
	}
	overall := dialCfg.OverallTimeout
	if overall <= 0 {
		overall = 45 * time.Second
	}
	return &Dialer{
		caller:         caller,
		agents:         agents,
		cli:            providerCfg.PhoneNumber,
		locale:         providerCfg.Locale,
		greeting:       greeting,
		attemptTimeout: attempt,
		overallTimeout: overall,
		logger:         lg,
	}
}

// Dial places one callout per agent with the customer as destination,
// stopping at the first accepted attempt. Per-agent failures are logged and
// treated as "agent unavailable". Exhaustion is an expected outcome, not an
// error: the zero Result signals the fallback path.
func (d *Dialer) Dial(ctx context.Context, customer string) Result {
	ctx, cancel := context.WithTimeout(ctx, d.overallTimeout)
	defer cancel()

	for _, agent := range d.agents {
		if ctx.Err() != nil {
			d.logger.Warn("dial round aborted",
				zap.String("phone", customer),
				zap.Error(ctx.Err()))
			break
		}

		callID, err := d.placeOne(ctx, agent, customer)
		if err != nil {
			d.logger.Warn("agent unavailable",
				zap.String("agent", agent),
				zap.String("phone", customer),
				zap.Error(err))
			continue
		}

		d.logger.Info("callout accepted",
			zap.String("agent", agent),
			zap.String("phone", customer),
			zap.String("call_id", callID))
		return Result{Accepted: true, CallID: callID, AgentNumber: agent}
	}

	return Result{}
}

func (d *Dialer) placeOne(ctx context.Context, agent, customer string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, d.attemptTimeout)
	defer cancel()

	callID, err := d.caller.PlaceCall(attemptCtx, telephony.CalloutParams{
		CLI:         d.cli,
		Destination: customer,
		Locale:      d.locale,
		Text:        d.greeting,
		Agent:       agent,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	return callID, nil
}
