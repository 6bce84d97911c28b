package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the data access interface for products.
// Catalog storage itself is owned by another team; resolution only needs
// point reads and the alternatives query used to synthesize clarification
// options.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Product, error)

	// FindAlternatives returns the active products sharing a canonical name,
	// i.e. the brand/variant siblings a customer may have meant.
	FindAlternatives(ctx context.Context, orgID uuid.UUID, canonical string, limit int) ([]Product, error)

	Save(ctx context.Context, product *Product) error
}
