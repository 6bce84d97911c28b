package ordering

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the data access interface for orders.
// Save persists the full row including the JSONB line array; callers mutate
// lines through the aggregate and write the whole order back.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Order, error)
	Save(ctx context.Context, order *Order) error
}
