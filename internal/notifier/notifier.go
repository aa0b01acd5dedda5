package notifier

import (
	"context"
	"fmt"

	"github.com/acme/sales-callback/internal/telephony"
	apperrors "github.com/acme/sales-callback/pkg/errors"
)

// Notifier sends the fallback SMS when no agent answered. A single attempt,
// no retry and no delivery confirmation tracked.
type Notifier struct {
	messenger telephony.Messenger
	from      string
}

// New constructs a notifier on top of the provider's messaging capability.
func New(messenger telephony.Messenger, from string) *Notifier {
	return &Notifier{messenger: messenger, from: from}
}

// Notify sends body to the customer. Failures wrap ErrNotification so the
// orchestrator can suppress them as best-effort.
func (n *Notifier) Notify(ctx context.Context, to, body string) error {
	if err := n.messenger.SendSMS(ctx, to, body); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNotification, err)
	}
	return nil
}
