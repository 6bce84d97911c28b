package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/chatcart/backend/internal/domain/alias"
	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerAliasRepository implements alias.CustomerAliasRepository using GORM
type GormCustomerAliasRepository struct {
	db *gorm.DB
}

var _ alias.CustomerAliasRepository = (*GormCustomerAliasRepository)(nil)

// NewGormCustomerAliasRepository creates a new GormCustomerAliasRepository
func NewGormCustomerAliasRepository(db *gorm.DB) *GormCustomerAliasRepository {
	return &GormCustomerAliasRepository{db: db}
}

// FindBest returns the customer's mapping for a normalized key
func (r *GormCustomerAliasRepository) FindBest(ctx context.Context, orgID, customerID uuid.UUID, key string) (*alias.CustomerAlias, error) {
	var record alias.CustomerAlias
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND customer_id = ? AND key = ?", orgID, customerID, key).
		Order("occurrence_count DESC").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Upsert inserts or increments the mapping and returns the post-write count.
// The increment runs inside the database so concurrent confirmations for the
// same key never clobber each other.
func (r *GormCustomerAliasRepository) Upsert(ctx context.Context, record *alias.CustomerAlias) (int, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "org_id"}, {Name: "customer_id"}, {Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"product_id":       record.ProductID,
			"occurrence_count": gorm.Expr("customer_aliases.occurrence_count + 1"),
			"updated_at":       time.Now(),
		}),
	}).Create(record).Error
	if err != nil {
		return 0, err
	}

	current, err := r.FindBest(ctx, record.OrgID, record.CustomerID, record.Key)
	if err != nil {
		return 0, err
	}
	return current.OccurrenceCount, nil
}

// FindByOrg lists an org's customer aliases ordered by count descending
func (r *GormCustomerAliasRepository) FindByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]alias.CustomerAlias, error) {
	var records []alias.CustomerAlias
	query := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("occurrence_count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GormGlobalAliasRepository implements alias.GlobalAliasRepository using GORM
type GormGlobalAliasRepository struct {
	db *gorm.DB
}

var _ alias.GlobalAliasRepository = (*GormGlobalAliasRepository)(nil)

// NewGormGlobalAliasRepository creates a new GormGlobalAliasRepository
func NewGormGlobalAliasRepository(db *gorm.DB) *GormGlobalAliasRepository {
	return &GormGlobalAliasRepository{db: db}
}

// FindBest returns the org-wide mapping for a normalized key
func (r *GormGlobalAliasRepository) FindBest(ctx context.Context, orgID uuid.UUID, key string) (*alias.GlobalAlias, error) {
	var record alias.GlobalAlias
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND key = ?", orgID, key).
		Order("occurrence_count DESC").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Upsert inserts or increments the mapping and returns the post-write count
func (r *GormGlobalAliasRepository) Upsert(ctx context.Context, record *alias.GlobalAlias) (int, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "org_id"}, {Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"product_id":       record.ProductID,
			"confidence":       record.Confidence,
			"occurrence_count": gorm.Expr("global_aliases.occurrence_count + 1"),
			"updated_at":       time.Now(),
		}),
	}).Create(record).Error
	if err != nil {
		return 0, err
	}

	current, err := r.FindBest(ctx, record.OrgID, record.Key)
	if err != nil {
		return 0, err
	}
	return current.OccurrenceCount, nil
}

// FindByOrg lists an org's global aliases ordered by count descending
func (r *GormGlobalAliasRepository) FindByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]alias.GlobalAlias, error) {
	var records []alias.GlobalAlias
	query := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("occurrence_count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
