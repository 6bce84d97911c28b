package catalog

import (
	"strings"
	"time"

	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is a catalog entry a chat order line can resolve to. Canonical is
// the base product name independent of brand and variant; the
// (canonical, brand, variant, unit) tuple identifies one sellable item.
type Product struct {
	shared.OrgAggregateRoot
	Canonical string          `gorm:"type:varchar(200);not null;index:idx_product_org_canonical,priority:2"`
	Brand     string          `gorm:"type:varchar(100)"`
	Variant   string          `gorm:"type:varchar(100)"`
	Unit      string          `gorm:"type:varchar(20);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status    ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new catalog product
func NewProduct(orgID uuid.UUID, canonical, brand, variant, unit string) (*Product, error) {
	if err := validateCanonical(canonical); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	return &Product{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Canonical:        strings.TrimSpace(canonical),
		Brand:            strings.TrimSpace(brand),
		Variant:          strings.TrimSpace(variant),
		Unit:             unit,
		Price:            decimal.Zero,
		Status:           ProductStatusActive,
	}, nil
}

// SetPrice sets the selling price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Deactivate removes the product from resolution candidates
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// Label renders the display label shown on clarification options,
// e.g. "Noodles (Maggi, 70g)".
func (p *Product) Label() string {
	qualifiers := make([]string, 0, 2)
	if p.Brand != "" {
		qualifiers = append(qualifiers, p.Brand)
	}
	if p.Variant != "" {
		qualifiers = append(qualifiers, p.Variant)
	}
	if len(qualifiers) == 0 {
		return p.Canonical
	}
	return p.Canonical + " (" + strings.Join(qualifiers, ", ") + ")"
}

func validateCanonical(canonical string) error {
	trimmed := strings.TrimSpace(canonical)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Canonical name cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Canonical name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
