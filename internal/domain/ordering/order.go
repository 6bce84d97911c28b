package ordering

import (
	"time"

	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LineStatus tracks the clarification lifecycle of one order line.
type LineStatus string

const (
	LineStatusNeedsClarification LineStatus = "NEEDS_CLARIFICATION"
	LineStatusLinkIssued         LineStatus = "LINK_ISSUED"
	LineStatusResolved           LineStatus = "RESOLVED"
)

// IsValid checks if the status is a valid LineStatus
func (s LineStatus) IsValid() bool {
	switch s {
	case LineStatusNeedsClarification, LineStatusLinkIssued, LineStatusResolved:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status.
// Resolved is terminal; a resolved line may still absorb a duplicate
// submission idempotently, which is a re-apply, not a transition.
func (s LineStatus) CanTransitionTo(target LineStatus) bool {
	switch s {
	case LineStatusNeedsClarification:
		return target == LineStatusLinkIssued || target == LineStatusResolved
	case LineStatusLinkIssued:
		return target == LineStatusResolved
	case LineStatusResolved:
		return false
	}
	return false
}

// OrderLine is one parsed item of a chat order. The upstream message parser
// fills RawName/Canonical and whatever brand/variant it could extract;
// ProductID stays nil until resolution succeeds.
type OrderLine struct {
	RawName   string          `json:"raw_name"`
	Canonical string          `json:"canonical"`
	Brand     string          `json:"brand,omitempty"`
	Variant   string          `json:"variant,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit,omitempty"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Status    LineStatus      `json:"status"`
}

// NeedsBrand reports whether the line is missing brand information.
func (l *OrderLine) NeedsBrand() bool {
	return l.Brand == ""
}

// NeedsVariant reports whether the line is missing variant information.
func (l *OrderLine) NeedsVariant() bool {
	return l.Variant == ""
}

// IsAmbiguous reports whether the line still needs clarification: no
// resolved product and at least one of brand/variant missing.
func (l *OrderLine) IsAmbiguous() bool {
	return l.ProductID == nil && (l.NeedsBrand() || l.NeedsVariant())
}

// Order is the chat order aggregate. Lines live on the order row as a JSONB
// array and are mutated in place; there is no optimistic check on line
// updates, so concurrent clarifications of the same line race with
// last-write-wins.
type Order struct {
	shared.OrgAggregateRoot
	CustomerID  *uuid.UUID                     `gorm:"type:uuid;index"`
	ParseReason string                         `gorm:"type:varchar(200)"`
	Lines       datatypes.JSONSlice[OrderLine] `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order from parsed line items
func NewOrder(orgID uuid.UUID, customerID *uuid.UUID, parseReason string, lines []OrderLine) (*Order, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one line")
	}

	normalized := make([]OrderLine, len(lines))
	copy(normalized, lines)
	for i := range normalized {
		if normalized[i].Status == "" {
			if normalized[i].IsAmbiguous() {
				normalized[i].Status = LineStatusNeedsClarification
			} else {
				normalized[i].Status = LineStatusResolved
			}
		}
	}

	return &Order{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		CustomerID:       customerID,
		ParseReason:      parseReason,
		Lines:            datatypes.NewJSONSlice(normalized),
	}, nil
}

// LineAt returns a pointer to the line at the given index, bounds-checked.
func (o *Order) LineAt(index int) (*OrderLine, error) {
	if index < 0 || index >= len(o.Lines) {
		return nil, shared.NewDomainError("LINE_OUT_OF_RANGE", "Order line index is out of range")
	}
	return &o.Lines[index], nil
}

// MarkLineLinkIssued records that a clarification link was sent for a line.
func (o *Order) MarkLineLinkIssued(index int) error {
	line, err := o.LineAt(index)
	if err != nil {
		return err
	}
	if !line.Status.CanTransitionTo(LineStatusLinkIssued) {
		return shared.NewDomainError("INVALID_STATE", "Line is not awaiting clarification")
	}
	line.Status = LineStatusLinkIssued
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// LineResolution carries the fields a clarification answer may write back.
// Only the asked-about fields are applied; the rest of the line is never
// clobbered.
type LineResolution struct {
	Brand      string
	Variant    string
	ProductID  *uuid.UUID
	AskBrand   bool
	AskVariant bool
}

// ResolveLine applies a confirmed clarification answer to a line. Duplicate
// submissions re-apply idempotently: an already resolved line accepts the
// same write again without a state error.
func (o *Order) ResolveLine(index int, res LineResolution) error {
	line, err := o.LineAt(index)
	if err != nil {
		return err
	}

	if res.AskBrand {
		line.Brand = res.Brand
	}
	if res.AskVariant {
		line.Variant = res.Variant
	}
	if res.ProductID != nil {
		line.ProductID = res.ProductID
	}
	line.Status = LineStatusResolved

	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// AmbiguousLines returns the indexes of lines still needing clarification.
func (o *Order) AmbiguousLines() []int {
	var indexes []int
	for i := range o.Lines {
		if o.Lines[i].Status == LineStatusNeedsClarification {
			indexes = append(indexes, i)
		}
	}
	return indexes
}
