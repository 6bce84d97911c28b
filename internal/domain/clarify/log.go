package clarify

import (
	"context"

	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LogRecord is one append-only audit entry per clarification submission.
// It stores a hash of the token rather than the token itself so the log
// cannot be replayed as a capability.
type LogRecord struct {
	shared.BaseEntity
	OrgID        uuid.UUID                   `gorm:"type:uuid;not null;index"`
	OrderID      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	LineIndex    int                         `gorm:"not null"`
	Choice       int                         `gorm:"not null"`
	Brand        string                      `gorm:"type:varchar(100)"`
	Variant      string                      `gorm:"type:varchar(100)"`
	ProductID    *uuid.UUID                  `gorm:"type:uuid"`
	OptionsShown datatypes.JSONSlice[Option] `gorm:"type:jsonb"`
	TokenHash    string                      `gorm:"type:varchar(64);not null;index"`
	SubmitterIP  string                      `gorm:"type:varchar(64)"`
	Duplicate    bool                        `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (LogRecord) TableName() string {
	return "clarification_logs"
}

// NewLogRecord creates an audit entry for one submission; the caller fills
// in the selection fields before appending.
func NewLogRecord(orgID, orderID uuid.UUID, lineIndex int) *LogRecord {
	return &LogRecord{
		BaseEntity: shared.NewBaseEntity(),
		OrgID:      orgID,
		OrderID:    orderID,
		LineIndex:  lineIndex,
	}
}

// LogRepository appends and inspects clarification audit entries.
type LogRepository interface {
	Append(ctx context.Context, record *LogRecord) error

	// CountByTokenHash reports how many submissions a token has already
	// produced; used to tag duplicates, never to reject them.
	CountByTokenHash(ctx context.Context, orgID uuid.UUID, tokenHash string) (int64, error)

	FindByOrder(ctx context.Context, orgID, orderID uuid.UUID) ([]LogRecord, error)
}
