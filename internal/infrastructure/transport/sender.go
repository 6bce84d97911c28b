// Package transport delivers outbound messages back to the chat channel
// a customer ordered from. The real gateway lives outside this service;
// this package defines the seam and a logging default.
package transport

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message is one outbound chat message to a customer
type Message struct {
	OrgID      uuid.UUID
	CustomerID *uuid.UUID
	Channel    string // e.g. "whatsapp", "telegram"
	Recipient  string // channel-specific address
	Text       string
	LinkURL    string // clarification link, when present
}

// Sender delivers outbound messages. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes outbound messages to the log instead of a gateway.
// Used in development and as the wiring default until a channel gateway
// is configured.
type LogSender struct {
	logger *zap.Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender creates a sender that only logs
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger.Named("transport")}
}

// Send logs the message and reports success
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	fields := []zap.Field{
		zap.String("org_id", msg.OrgID.String()),
		zap.String("channel", msg.Channel),
		zap.String("recipient", msg.Recipient),
		zap.String("text", msg.Text),
	}
	if msg.CustomerID != nil {
		fields = append(fields, zap.String("customer_id", msg.CustomerID.String()))
	}
	if msg.LinkURL != "" {
		fields = append(fields, zap.String("link_url", msg.LinkURL))
	}
	s.logger.Info("Outbound message", fields...)
	return nil
}
