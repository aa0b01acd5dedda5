package callback

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/acme/sales-callback/internal/dialer"
	"github.com/acme/sales-callback/internal/domain"
	"github.com/acme/sales-callback/internal/phone"
	"github.com/acme/sales-callback/internal/queue"
	"github.com/acme/sales-callback/internal/store"
	apperrors "github.com/acme/sales-callback/pkg/errors"
	"github.com/acme/sales-callback/pkg/logger"
)

// User-facing acknowledgments. The widget audience is Swedish; technical
// detail stays in server logs.
const (
	MsgAgentCalling = "Tack! En säljare ringer upp dig inom kort."
	MsgFallbackSent = "Just nu är alla säljare upptagna. Vi har skickat ett SMS och återkommer så snart vi kan."
)

// Ack is the acknowledgment returned for every accepted request, on both the
// agent-dialed and the SMS-fallback path.
type Ack struct {
	Message     string
	QueueNumber int
}

// Dialer runs one dial-out round over the configured agents.
type Dialer interface {
	Dial(ctx context.Context, customer string) dialer.Result
}

// Notifier sends the fallback SMS.
type Notifier interface {
	Notify(ctx context.Context, to, body string) error
}

// Publisher emits lifecycle events downstream, best effort.
type Publisher interface {
	Publish(ctx context.Context, evt queue.Event) error
}

// SubmissionLimiter guards against repeated submissions for the same number.
type SubmissionLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Service orchestrates the callback lifecycle: validate, queue, dial out,
// fall back to SMS, and apply asynchronous provider status notifications.
type Service struct {
	validator    *phone.Validator
	store        *store.CallbackStore
	dialer       Dialer
	notifier     Notifier
	publisher    Publisher
	limiter      SubmissionLimiter
	fallbackBody string
	logger       *logger.Logger
}

// NewService builds the callback service. publisher and limiter may be nil
// when the corresponding infrastructure is disabled.
func NewService(
	validator *phone.Validator,
	callbackStore *store.CallbackStore,
	d Dialer,
	n Notifier,
	publisher Publisher,
	limiter SubmissionLimiter,
	fallbackBody string,
	lg *logger.Logger,
) *Service {
	return &Service{
		validator:    validator,
		store:        callbackStore,
		dialer:       d,
		notifier:     n,
		publisher:    publisher,
		limiter:      limiter,
		fallbackBody: fallbackBody,
		logger:       lg,
	}
}

// HandleRequest runs a callback request end to end. Validation failures
// surface as sentinel errors before anything is stored; once an entry is
// appended it is never rolled back.
func (s *Service) HandleRequest(ctx context.Context, rawPhone string) (Ack, error) {
	raw := strings.TrimSpace(rawPhone)
	if raw == "" {
		return Ack{}, apperrors.ErrMissingInput
	}
	if !s.validator.Validate(raw) {
		return Ack{}, apperrors.ErrInvalidFormat
	}
	normalized := s.validator.Normalize(raw)

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, normalized)
		if err != nil {
			// Fail open: a broken limiter must not block customers.
			s.logger.Warn("submission limiter unavailable", zap.Error(err))
		} else if !allowed {
			return Ack{}, apperrors.ErrRateLimited
		}
	}

	tracer := otel.Tracer("callback.service")
	ctx, span := tracer.Start(ctx, "callback.request", trace.WithAttributes(
		attribute.String("phone.normalized", normalized),
	))
	defer span.End()

	now := time.Now().UTC()
	entry := domain.CallbackEntry{
		ID:          uuid.New(),
		PhoneNumber: normalized,
		Status:      domain.CallbackStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	position := s.store.Append(entry)
	span.SetAttributes(attribute.Int("queue.position", position))

	s.publish(ctx, queue.Event{
		Kind:        queue.EventCallbackReceived,
		CallbackID:  entry.ID,
		PhoneNumber: normalized,
		QueueNumber: position,
		Status:      string(domain.CallbackStatusPending),
	})

	result := s.dialer.Dial(ctx, normalized)
	if result.Accepted {
		s.store.SetDialed(entry.ID, result.CallID, result.AgentNumber)
		s.publish(ctx, queue.Event{
			Kind:        queue.EventCallbackDialed,
			CallbackID:  entry.ID,
			CallID:      result.CallID,
			PhoneNumber: normalized,
			AgentNumber: result.AgentNumber,
			QueueNumber: position,
			Status:      string(domain.CallbackStatusProcessing),
		})
		return Ack{Message: MsgAgentCalling, QueueNumber: position}, nil
	}

	// Every agent was exhausted: send the apology SMS. A notifier failure is
	// logged and suppressed so the secondary failure never blocks the
	// primary acknowledgment.
	if err := s.notifier.Notify(ctx, normalized, s.fallbackBody); err != nil {
		span.RecordError(err)
		s.logger.Error("fallback sms failed",
			zap.String("phone", normalized),
			zap.Error(err))
	}
	s.store.MarkNotified(entry.ID)
	s.publish(ctx, queue.Event{
		Kind:        queue.EventCallbackExhausted,
		CallbackID:  entry.ID,
		PhoneNumber: normalized,
		QueueNumber: position,
		Status:      string(domain.CallbackStatusNotified),
	})
	return Ack{Message: MsgFallbackSent, QueueNumber: position}, nil
}

// HandleStatus applies an asynchronous provider status notification to the
// matching entry. It never fails: unmapped statuses and unknown call ids are
// acknowledged no-ops, since provider webhooks must not be retried.
func (s *Service) HandleStatus(ctx context.Context, callID, providerStatus string) {
	if callID == "" {
		return
	}

	status, ok := domain.StatusFromProvider(providerStatus)
	if !ok {
		s.logger.Debug("ignoring unmapped provider status",
			zap.String("call_id", callID),
			zap.String("status", providerStatus))
		return
	}

	if !s.store.UpdateStatus(callID, status) {
		// Possibly a webhook for a call placed before a restart.
		s.logger.Info("status notification for unknown call",
			zap.String("call_id", callID),
			zap.String("status", providerStatus))
		return
	}

	s.logger.Info("call status updated",
		zap.String("call_id", callID),
		zap.String("status", string(status)))

	entry, found := s.store.FindByCallID(callID)
	if found {
		s.publish(ctx, queue.Event{
			Kind:        queue.EventStatusChanged,
			CallbackID:  entry.ID,
			CallID:      callID,
			PhoneNumber: entry.PhoneNumber,
			AgentNumber: entry.AgentNumber,
			Status:      string(status),
		})
	}
}

func (s *Service) publish(ctx context.Context, evt queue.Event) {
	if s.publisher == nil {
		return
	}
	evt.ID = uuid.New()
	evt.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("publish event",
			zap.String("kind", string(evt.Kind)),
			zap.Error(err))
	}
}
