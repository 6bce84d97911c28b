// Package intake accepts parsed chat orders, auto-resolves what it can
// from alias memory and opens clarification rounds for the rest.
package intake

import (
	"context"
	"strings"

	aliasapp "github.com/chatcart/backend/internal/application/alias"
	clarifyapp "github.com/chatcart/backend/internal/application/clarify"
	"github.com/chatcart/backend/internal/domain/ordering"
	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/chatcart/backend/internal/infrastructure/config"
	"github.com/chatcart/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrDuplicateMessage marks an inbound message whose ID was already
// processed. The original order stands; nothing new is created.
var ErrDuplicateMessage = shared.NewDomainError("DUPLICATE_MESSAGE", "Message has already been processed")

// LineInput is one parsed line item from the upstream message parser
type LineInput struct {
	RawName   string          `json:"raw_name"`
	Canonical string          `json:"canonical"`
	Brand     string          `json:"brand,omitempty"`
	Variant   string          `json:"variant,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit,omitempty"`
}

// Input is one inbound parsed order message
type Input struct {
	OrgID       uuid.UUID
	CustomerID  *uuid.UUID
	MessageID   string // channel message ID, used for dedup
	Channel     string
	Recipient   string
	ParseReason string
	Lines       []LineInput
}

// LineOutcome reports what happened to one line during intake
type LineOutcome struct {
	Index     int             `json:"index"`
	RawName   string          `json:"raw_name"`
	Status    string          `json:"status"` // "resolved" or "link_issued"
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Source    aliasapp.Source `json:"source,omitempty"`
	LinkURL   string          `json:"link_url,omitempty"`
}

// Result is the per-order intake outcome
type Result struct {
	OrderID uuid.UUID     `json:"order_id"`
	Lines   []LineOutcome `json:"lines"`
}

// LinkIssuer opens a clarification round for one ambiguous line.
// Satisfied by the clarify application service; mocked in tests.
type LinkIssuer interface {
	IssueLink(ctx context.Context, input clarifyapp.IssueLinkInput) (*clarifyapp.IssueLinkResult, error)
}

var _ LinkIssuer = (*clarifyapp.Service)(nil)

// Service runs the intake pipeline: dedup, best-effort auto-resolution,
// persistence, clarification links.
type Service struct {
	orders   ordering.OrderRepository
	resolver *aliasapp.Resolver
	clarify  LinkIssuer
	dedup    shared.MessageDedup
	cfg      config.ClarifyConfig
	logger   *zap.Logger
}

// NewService creates the intake service
func NewService(
	orders ordering.OrderRepository,
	resolver *aliasapp.Resolver,
	clarify LinkIssuer,
	dedup shared.MessageDedup,
	cfg config.ClarifyConfig,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders:   orders,
		resolver: resolver,
		clarify:  clarify,
		dedup:    dedup,
		cfg:      cfg,
		logger:   logger.Named("intake_service"),
	}
}

// Process turns one parsed message into a persisted order. Lines the alias
// memory recognizes resolve immediately; the rest get clarification links.
// A link failure downgrades the line, it does not fail the order.
func (s *Service) Process(ctx context.Context, input Input) (*Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "intake", "process")
	defer span.End()

	if len(input.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one line")
	}

	if err := s.markSeen(ctx, input.MessageID); err != nil {
		return nil, err
	}

	lines := make([]ordering.OrderLine, len(input.Lines))
	sources := make([]aliasapp.Source, len(input.Lines))
	for i, in := range input.Lines {
		lines[i] = ordering.OrderLine{
			RawName:   strings.TrimSpace(in.RawName),
			Canonical: strings.TrimSpace(in.Canonical),
			Brand:     strings.TrimSpace(in.Brand),
			Variant:   strings.TrimSpace(in.Variant),
			Quantity:  in.Quantity,
			Unit:      strings.TrimSpace(in.Unit),
		}

		if !lines[i].IsAmbiguous() {
			continue
		}
		match, err := s.resolver.Resolve(ctx, input.OrgID, input.CustomerID, lines[i].RawName)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if match != nil {
			id := match.ProductID
			lines[i].ProductID = &id
			sources[i] = match.Source
		}
	}

	order, err := ordering.NewOrder(input.OrgID, input.CustomerID, input.ParseReason, lines)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrOrderID, order.ID.String())

	result := &Result{OrderID: order.ID, Lines: make([]LineOutcome, len(order.Lines))}
	for i := range order.Lines {
		outcome := LineOutcome{
			Index:     i,
			RawName:   order.Lines[i].RawName,
			ProductID: order.Lines[i].ProductID,
			Source:    sources[i],
		}
		if order.Lines[i].Status == ordering.LineStatusResolved {
			outcome.Status = "resolved"
			result.Lines[i] = outcome
			continue
		}

		link, err := s.clarify.IssueLink(ctx, clarifyapp.IssueLinkInput{
			Order:     order,
			LineIndex: i,
			Channel:   input.Channel,
			Recipient: input.Recipient,
		})
		if err != nil {
			// The order is already persisted; leave the line awaiting
			// clarification so an operator can re-trigger the link.
			s.logger.Warn("Failed to issue clarification link",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
				zap.Int("line_index", i),
			)
			outcome.Status = "needs_clarification"
			result.Lines[i] = outcome
			continue
		}
		outcome.Status = "link_issued"
		outcome.LinkURL = link.URL
		result.Lines[i] = outcome
	}

	return result, nil
}

// markSeen applies message dedup. A dedup store failure is logged and
// waved through; a duplicate order beats a dropped one.
func (s *Service) markSeen(ctx context.Context, messageID string) error {
	if messageID == "" || s.dedup == nil {
		return nil
	}
	fresh, err := s.dedup.MarkSeen(ctx, messageID, s.cfg.DedupTTL)
	if err != nil {
		s.logger.Warn("Message dedup check failed", zap.Error(err), zap.String("message_id", messageID))
		return nil
	}
	if !fresh {
		return ErrDuplicateMessage
	}
	return nil
}
