package clarify

import (
	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FreeformChoice is the sentinel choice index meaning "none of these":
// the customer typed the answer into the freeform field(s) instead.
const FreeformChoice = -1

// AskFlags names the fields a clarification is soliciting. Submission only
// ever writes back the flagged fields.
type AskFlags struct {
	Brand   bool `json:"brand,omitempty"`
	Variant bool `json:"variant,omitempty"`
}

// Any reports whether at least one field is being asked about.
func (f AskFlags) Any() bool {
	return f.Brand || f.Variant
}

// Payload is the full description of a pending clarification. It travels
// inside the signed token and is the flow's only persisted state: there is
// no server-side pending table to expire or sweep.
type Payload struct {
	OrgID         uuid.UUID  `json:"org_id"`
	OrderID       uuid.UUID  `json:"order_id"`
	LineIndex     int        `json:"line_index"`
	Options       []Option   `json:"options"`
	Ask           AskFlags   `json:"ask"`
	AllowFreeform bool       `json:"allow_freeform"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
}

// Validate checks the payload's structural invariants.
func (p *Payload) Validate() error {
	if p.OrgID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYLOAD", "Payload is missing org id")
	}
	if p.OrderID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYLOAD", "Payload is missing order id")
	}
	if p.LineIndex < 0 {
		return shared.NewDomainError("INVALID_PAYLOAD", "Line index cannot be negative")
	}
	if len(p.Options) == 0 {
		return shared.NewDomainError("INVALID_PAYLOAD", "Payload must carry at least one option")
	}
	if !p.Ask.Any() {
		return shared.NewDomainError("INVALID_PAYLOAD", "Payload must solicit at least one field")
	}
	return nil
}
