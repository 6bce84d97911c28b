package persistence

import (
	"context"

	"github.com/chatcart/backend/internal/domain/clarify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClarificationLogRepository implements clarify.LogRepository using GORM.
// The table is append-only; rows are never updated or deleted.
type GormClarificationLogRepository struct {
	db *gorm.DB
}

var _ clarify.LogRepository = (*GormClarificationLogRepository)(nil)

// NewGormClarificationLogRepository creates a new GormClarificationLogRepository
func NewGormClarificationLogRepository(db *gorm.DB) *GormClarificationLogRepository {
	return &GormClarificationLogRepository{db: db}
}

// Append writes one submission record
func (r *GormClarificationLogRepository) Append(ctx context.Context, record *clarify.LogRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// CountByTokenHash reports prior submissions for a token
func (r *GormClarificationLogRepository) CountByTokenHash(ctx context.Context, orgID uuid.UUID, tokenHash string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&clarify.LogRecord{}).
		Where("org_id = ? AND token_hash = ?", orgID, tokenHash).
		Count(&count).Error
	return count, err
}

// FindByOrder lists submissions for an order, oldest first
func (r *GormClarificationLogRepository) FindByOrder(ctx context.Context, orgID, orderID uuid.UUID) ([]clarify.LogRecord, error) {
	var records []clarify.LogRecord
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND order_id = ?", orgID, orderID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
