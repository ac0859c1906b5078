package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-orders/internal/config"
	"github.com/spec-kit/restaurant-orders/internal/events"
)

// Notifier delivers best-effort messages to customers and staff. Failures are
// logged by callers, never propagated.
type Notifier interface {
	Send(ctx context.Context, category, recipient, subject, body string) error
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// Send implements Notifier via the stub email and webhook channels.
func (n *NotificationService) Send(ctx context.Context, category, recipient, subject, body string) error {
	n.sendEmailStub(ctx, category, recipient, subject, body)
	n.sendWebhookStub(ctx, category, recipient)
	return nil
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleRecordEvent)
	n.dispatcher.Subscribe(events.EventOrderConfirmed, n.handleRecordEvent)
	n.dispatcher.Subscribe(events.EventOrderCancelled, n.handleRecordEvent)
	n.dispatcher.Subscribe(events.EventOrderEscalated, n.handleRecordEvent)
	n.dispatcher.Subscribe(events.EventOrderAutoCancelled, n.handleRecordEvent)
	n.dispatcher.Subscribe(events.EventPrepTimeAdjusted, n.handleRecordEvent)
	n.dispatcher.Subscribe(events.EventReservationCreated, n.handleRecordEvent)
}

func (n *NotificationService) handleRecordEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("record_id", event.RecordID),
		zap.String("record_ref", event.RecordRef),
		zap.String("kind", string(event.Kind)),
		zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, string(event.Type), event.RecordRef)
	return nil
}

func (n *NotificationService) sendEmailStub(ctx context.Context, category, recipient, subject, body string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(recipient) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", recipient),
		zap.String("category", category),
		zap.String("subject", subject),
		zap.Int("body_len", len(body)))
}

func (n *NotificationService) sendWebhookStub(ctx context.Context, category, ref string) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("category", category),
		zap.String("record_ref", ref))
}
