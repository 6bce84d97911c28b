// Package alias holds the two-tier product alias memory: what individual
// customers call products, and what the whole store has learned from them.
package alias

import (
	"time"

	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerAlias maps one customer's phrasing to a catalog product.
// Key is the normalized wrong-text; OccurrenceCount only ever grows and is
// the sole ranking and promotion signal.
type CustomerAlias struct {
	shared.BaseEntity
	OrgID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_customer_alias_key,priority:1"`
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_customer_alias_key,priority:2"`
	Key             string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_customer_alias_key,priority:3"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null"`
	OccurrenceCount int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (CustomerAlias) TableName() string {
	return "customer_aliases"
}

// GlobalAlias is org-wide alias memory, created by promotion once a customer
// record repeats often enough. Both counters keep incrementing independently
// after promotion; the tiers are never merged.
type GlobalAlias struct {
	shared.BaseEntity
	OrgID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_global_alias_key,priority:1"`
	Key             string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_global_alias_key,priority:2"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null"`
	OccurrenceCount int       `gorm:"not null;default:1"`
	Confidence      float64   `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (GlobalAlias) TableName() string {
	return "global_aliases"
}

// NewCustomerAlias creates a first-occurrence customer alias record
func NewCustomerAlias(orgID, customerID uuid.UUID, key string, productID uuid.UUID) (*CustomerAlias, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Alias key cannot be empty")
	}
	return &CustomerAlias{
		BaseEntity:      shared.NewBaseEntity(),
		OrgID:           orgID,
		CustomerID:      customerID,
		Key:             key,
		ProductID:       productID,
		OccurrenceCount: 1,
	}, nil
}

// NewGlobalAlias creates a first-occurrence global alias record
func NewGlobalAlias(orgID uuid.UUID, key string, productID uuid.UUID, confidence float64) (*GlobalAlias, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Alias key cannot be empty")
	}
	if confidence < 0 || confidence > 1 {
		return nil, shared.NewDomainError("INVALID_CONFIDENCE", "Confidence must be within [0,1]")
	}
	return &GlobalAlias{
		BaseEntity:      shared.NewBaseEntity(),
		OrgID:           orgID,
		Key:             key,
		ProductID:       productID,
		OccurrenceCount: 1,
		Confidence:      confidence,
	}, nil
}

// Confirm records another human confirmation of this customer mapping.
// The latest confirmed product wins; the count never decreases.
func (a *CustomerAlias) Confirm(productID uuid.UUID) {
	a.ProductID = productID
	a.OccurrenceCount++
	a.UpdatedAt = time.Now()
}

// Confirm records another confirmation of this global mapping.
func (a *GlobalAlias) Confirm(productID uuid.UUID, confidence float64) {
	a.ProductID = productID
	a.OccurrenceCount++
	if confidence >= 0 && confidence <= 1 {
		a.Confidence = confidence
	}
	a.UpdatedAt = time.Now()
}
