/**
 * @description
 * Fire-and-forget notification dispatch. The core calls these methods when a
 * transfer is created or arrives; the returned flag is logged by the caller
 * and never acted upon, so a failed dispatch can never roll back or delay a
 * transaction.
 *
 * Two implementations are provided: an event-backed dispatcher that publishes
 * delivery requests to the message broker for a downstream delivery worker,
 * and a log-only dispatcher for sessions without a broker.
 */

package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/icreditbank/banking-service/pkg/rabbitmq"
)

// Notifier dispatches rendered notifications to a recipient contact.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) bool
	SendSMS(ctx context.Context, to, message string) bool
}

// EmailRequested is the payload published for a downstream email worker.
type EmailRequested struct {
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// SMSRequested is the payload published for a downstream SMS worker.
type SMSRequested struct {
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// EventNotifier publishes delivery requests to the event exchange.
type EventNotifier struct {
	producer rabbitmq.Publisher
	exchange string
	logger   *slog.Logger
}

// NewEventNotifier creates a notifier backed by the given producer.
func NewEventNotifier(producer rabbitmq.Publisher, exchange string, logger *slog.Logger) *EventNotifier {
	return &EventNotifier{producer: producer, exchange: exchange, logger: logger}
}

func (n *EventNotifier) SendEmail(ctx context.Context, to, subject, body string) bool {
	err := n.producer.Publish(ctx, n.exchange, "notification.email.requested", EmailRequested{
		To:        to,
		Subject:   subject,
		Body:      body,
		Timestamp: time.Now(),
	})
	if err != nil {
		n.logger.Warn("email dispatch failed", "to", to, "subject", subject, "error", err)
		return false
	}
	return true
}

func (n *EventNotifier) SendSMS(ctx context.Context, to, message string) bool {
	err := n.producer.Publish(ctx, n.exchange, "notification.sms.requested", SMSRequested{
		To:        to,
		Message:   message,
		Timestamp: time.Now(),
	})
	if err != nil {
		n.logger.Warn("sms dispatch failed", "to", to, "error", err)
		return false
	}
	return true
}

// LogNotifier writes notifications to the log and always reports success.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendEmail(_ context.Context, to, subject, _ string) bool {
	n.logger.Info("email notification", "to", to, "subject", subject)
	return true
}

func (n *LogNotifier) SendSMS(_ context.Context, to, message string) bool {
	n.logger.Info("sms notification", "to", to, "message", message)
	return true
}
