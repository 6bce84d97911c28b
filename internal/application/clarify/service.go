// Package clarify implements the clarification workflow: issuing signed
// clarification links for ambiguous order lines and applying the answers
// customers submit through them.
package clarify

import (
	"context"
	"strings"

	aliasapp "github.com/chatcart/backend/internal/application/alias"
	"github.com/chatcart/backend/internal/domain/catalog"
	"github.com/chatcart/backend/internal/domain/clarify"
	"github.com/chatcart/backend/internal/domain/ordering"
	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/chatcart/backend/internal/domain/shared/textmatch"
	"github.com/chatcart/backend/internal/infrastructure/config"
	"github.com/chatcart/backend/internal/infrastructure/telemetry"
	"github.com/chatcart/backend/internal/infrastructure/token"
	"github.com/chatcart/backend/internal/infrastructure/transport"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoCandidates is returned when a line has nothing to offer the
// customer: no catalog alternatives share its canonical name.
var ErrNoCandidates = shared.NewDomainError("NO_CANDIDATES", "No candidate products available for clarification")

// Learner records confirmed text-to-product mappings. Satisfied by the
// alias application service; mocked in tests.
type Learner interface {
	Learn(ctx context.Context, input aliasapp.LearnInput)
}

var _ Learner = (*aliasapp.Learner)(nil)

// Service drives the clarification round trip. The signed token is the
// only pending state; both ends of the trip run the same option
// processing so a numeric choice index means the same thing at render
// time and at submit time.
type Service struct {
	orders     ordering.OrderRepository
	products   catalog.ProductRepository
	logs       clarify.LogRepository
	codec      *token.Codec
	sender     transport.Sender
	learner    Learner
	tokenCfg   config.TokenConfig
	maxOptions int
	logger     *zap.Logger
}

// NewService creates the clarification service
func NewService(
	orders ordering.OrderRepository,
	products catalog.ProductRepository,
	logs clarify.LogRepository,
	codec *token.Codec,
	sender transport.Sender,
	learner Learner,
	tokenCfg config.TokenConfig,
	clarifyCfg config.ClarifyConfig,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxOptions := clarifyCfg.MaxOptions
	if maxOptions < clarify.MinMaxOptions {
		maxOptions = clarify.DefaultMaxOptions
	}
	return &Service{
		orders:     orders,
		products:   products,
		logs:       logs,
		codec:      codec,
		sender:     sender,
		learner:    learner,
		tokenCfg:   tokenCfg,
		maxOptions: maxOptions,
		logger:     logger.Named("clarify_service"),
	}
}

// IssueLinkInput identifies the ambiguous line and where to deliver the link
type IssueLinkInput struct {
	Order     *ordering.Order
	LineIndex int
	Channel   string
	Recipient string
}

// IssueLinkResult carries the signed token and the public link URL
type IssueLinkResult struct {
	Token string
	URL   string
}

// IssueLink builds the candidate options for an ambiguous line, signs them
// into a token, marks the line, persists the order and delivers the link.
// Delivery failures are logged and swallowed; the link stays valid and can
// be re-sent through other channels.
func (s *Service) IssueLink(ctx context.Context, input IssueLinkInput) (*IssueLinkResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "clarify", "issue_link")
	defer span.End()

	order := input.Order
	line, err := order.LineAt(input.LineIndex)
	if err != nil {
		return nil, err
	}
	if line.Status != ordering.LineStatusNeedsClarification {
		return nil, shared.NewDomainError("INVALID_STATE", "Line is not awaiting clarification")
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrOrderID, order.ID.String())
	telemetry.SetAttribute(span, telemetry.SpanAttrLineIndex, input.LineIndex)

	options, err := s.buildOptions(ctx, order.OrgID, line)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(options) == 0 {
		return nil, ErrNoCandidates
	}

	payload := clarify.Payload{
		OrgID:     order.OrgID,
		OrderID:   order.ID,
		LineIndex: input.LineIndex,
		Options:   clarify.ProcessOptions(options, s.maxOptions),
		Ask: clarify.AskFlags{
			Brand:   line.NeedsBrand(),
			Variant: line.NeedsVariant(),
		},
		AllowFreeform: true,
		CustomerID:    order.CustomerID,
	}

	signed, err := s.codec.Sign(payload)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := order.MarkLineLinkIssued(input.LineIndex); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &IssueLinkResult{
		Token: signed,
		URL:   s.tokenCfg.LinkURL(signed),
	}

	if input.Recipient != "" {
		msg := transport.Message{
			OrgID:      order.OrgID,
			CustomerID: order.CustomerID,
			Channel:    input.Channel,
			Recipient:  input.Recipient,
			Text:       "We need a quick detail about \"" + line.RawName + "\" to complete your order.",
			LinkURL:    result.URL,
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			s.logger.Warn("Failed to deliver clarification link",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
				zap.Int("line_index", input.LineIndex),
			)
		}
	}

	return result, nil
}

// buildOptions synthesizes the candidate list for a line from the active
// catalog siblings of its canonical name, scored against the raw text.
func (s *Service) buildOptions(ctx context.Context, orgID uuid.UUID, line *ordering.OrderLine) ([]clarify.Option, error) {
	// Fetch more than we will show so ranking has something to choose from.
	alternatives, err := s.products.FindAlternatives(ctx, orgID, line.Canonical, s.maxOptions*4)
	if err != nil {
		return nil, err
	}

	rawKey := textmatch.Normalize(line.RawName)
	options := make([]clarify.Option, 0, len(alternatives))
	for i := range alternatives {
		p := &alternatives[i]
		id := p.ID
		options = append(options, clarify.Option{
			Label:     p.Label(),
			Canonical: p.Canonical,
			Brand:     p.Brand,
			Variant:   p.Variant,
			Unit:      p.Unit,
			ProductID: &id,
			Score:     textmatch.Score(rawKey, textmatch.Normalize(p.Label())),
		})
	}
	return options, nil
}

// PageView is what the clarification page renders, derived entirely from
// the token.
type PageView struct {
	OrderID       uuid.UUID
	LineIndex     int
	Options       []clarify.Option
	Ask           clarify.AskFlags
	AllowFreeform bool
}

// Page verifies a token and returns the page view model. Any token problem
// surfaces as ErrTokenInvalid.
func (s *Service) Page(ctx context.Context, tokenString string) (*PageView, error) {
	_, span := telemetry.StartServiceSpan(ctx, "clarify", "page")
	defer span.End()

	payload, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	return &PageView{
		OrderID:       payload.OrderID,
		LineIndex:     payload.LineIndex,
		Options:       clarify.ProcessOptions(payload.Options, s.maxOptions),
		Ask:           payload.Ask,
		AllowFreeform: payload.AllowFreeform,
	}, nil
}

// SubmitInput is one clarification answer
type SubmitInput struct {
	Token        string
	Choice       int    // option index, or clarify.FreeformChoice
	OtherBrand   string // freeform answers, required per ask flags when Choice is freeform
	OtherVariant string
	SubmitterIP  string
}

// SubmitResult reports what the submission resolved the line to
type SubmitResult struct {
	OrderID   uuid.UUID
	LineIndex int
	Brand     string
	Variant   string
	ProductID *uuid.UUID
	Label     string
	Duplicate bool
}

// Submit applies a clarification answer. Token failures reject before any
// mutation. Duplicate submissions of the same token re-apply idempotently
// and are tagged in the audit log, never hard-rejected.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "clarify", "submit")
	defer span.End()

	payload, err := s.codec.Verify(input.Token)
	if err != nil {
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrOrderID, payload.OrderID.String())
	telemetry.SetAttribute(span, telemetry.SpanAttrLineIndex, payload.LineIndex)
	telemetry.SetAttribute(span, telemetry.SpanAttrChoice, input.Choice)

	options := clarify.ProcessOptions(payload.Options, s.maxOptions)
	resolution, label, err := s.selectAnswer(payload, options, input)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByIDForOrg(ctx, payload.OrgID, payload.OrderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	line, err := order.LineAt(payload.LineIndex)
	if err != nil {
		return nil, err
	}
	rawName := line.RawName

	if err := order.ResolveLine(payload.LineIndex, resolution); err != nil {
		return nil, err
	}

	tokenHash := token.Hash(input.Token)
	duplicate := s.isDuplicate(ctx, payload.OrgID, tokenHash)

	if err := s.orders.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.appendLog(ctx, payload, options, resolution, input, tokenHash, duplicate)
	s.learn(ctx, payload, order, rawName, label, resolution.ProductID)

	return &SubmitResult{
		OrderID:   payload.OrderID,
		LineIndex: payload.LineIndex,
		Brand:     resolution.Brand,
		Variant:   resolution.Variant,
		ProductID: resolution.ProductID,
		Label:     label,
		Duplicate: duplicate,
	}, nil
}

// selectAnswer maps a choice index or the freeform fields onto the line
// resolution. Everything recoverable returns ErrValidation so the customer
// can resubmit through the same link.
func (s *Service) selectAnswer(payload clarify.Payload, options []clarify.Option, input SubmitInput) (ordering.LineResolution, string, error) {
	resolution := ordering.LineResolution{
		AskBrand:   payload.Ask.Brand,
		AskVariant: payload.Ask.Variant,
	}

	switch {
	case input.Choice >= 0 && input.Choice < len(options):
		chosen := options[input.Choice]
		resolution.Brand = chosen.Brand
		resolution.Variant = chosen.Variant
		resolution.ProductID = chosen.ProductID
		return resolution, chosen.Label, nil

	case input.Choice == clarify.FreeformChoice:
		if !payload.AllowFreeform {
			return resolution, "", shared.ErrValidation
		}
		brand := strings.TrimSpace(input.OtherBrand)
		variant := strings.TrimSpace(input.OtherVariant)
		if payload.Ask.Brand && brand == "" {
			return resolution, "", shared.ErrValidation
		}
		if payload.Ask.Variant && variant == "" {
			return resolution, "", shared.ErrValidation
		}
		resolution.Brand = brand
		resolution.Variant = variant
		return resolution, "", nil

	default:
		return resolution, "", shared.ErrValidation
	}
}

// isDuplicate reports whether this token already produced a submission.
// The check only tags the audit entry, so a failed count degrades to
// "not a duplicate" instead of blocking the submission.
func (s *Service) isDuplicate(ctx context.Context, orgID uuid.UUID, tokenHash string) bool {
	count, err := s.logs.CountByTokenHash(ctx, orgID, tokenHash)
	if err != nil {
		s.logger.Warn("Failed to count prior submissions", zap.Error(err))
		return false
	}
	return count > 0
}

// appendLog writes the audit entry. Audit failures never fail a
// submission that already mutated the order.
func (s *Service) appendLog(
	ctx context.Context,
	payload clarify.Payload,
	options []clarify.Option,
	resolution ordering.LineResolution,
	input SubmitInput,
	tokenHash string,
	duplicate bool,
) {
	record := clarify.NewLogRecord(payload.OrgID, payload.OrderID, payload.LineIndex)
	record.Choice = input.Choice
	record.Brand = resolution.Brand
	record.Variant = resolution.Variant
	record.ProductID = resolution.ProductID
	record.OptionsShown = options
	record.TokenHash = tokenHash
	record.SubmitterIP = input.SubmitterIP
	record.Duplicate = duplicate

	if err := s.logs.Append(ctx, record); err != nil {
		s.logger.Warn("Failed to append clarification log",
			zap.Error(err),
			zap.String("order_id", payload.OrderID.String()),
		)
	}
}

// learn feeds the confirmed mapping to alias memory in the background.
// Only product-backed confirmations from identified customers teach
// anything; the learner itself swallows its own failures.
func (s *Service) learn(ctx context.Context, payload clarify.Payload, order *ordering.Order, rawName, label string, productID *uuid.UUID) {
	if productID == nil || label == "" {
		return
	}
	customerID := payload.CustomerID
	if customerID == nil {
		customerID = order.CustomerID
	}
	if customerID == nil {
		return
	}

	learnInput := aliasapp.LearnInput{
		OrgID:      payload.OrgID,
		CustomerID: *customerID,
		RawText:    rawName,
		Label:      label,
		ProductID:  *productID,
	}
	go s.learner.Learn(context.WithoutCancel(ctx), learnInput)
}
