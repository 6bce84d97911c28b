package alias

import (
	"context"

	"github.com/chatcart/backend/internal/domain/alias"
	"github.com/chatcart/backend/internal/domain/shared/textmatch"
	"github.com/chatcart/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPromotionThreshold is how many confirmations a customer mapping
// needs before it is promoted into the global tier.
const DefaultPromotionThreshold = 3

// LearnInput carries one confirmed text-to-product mapping
type LearnInput struct {
	OrgID      uuid.UUID
	CustomerID uuid.UUID
	RawText    string // what the customer originally typed
	Label      string // the label of the product they confirmed
	ProductID  uuid.UUID
}

// Learner writes confirmed mappings into alias memory and promotes
// frequently confirmed ones to the global tier.
type Learner struct {
	customerAliases    alias.CustomerAliasRepository
	globalAliases      alias.GlobalAliasRepository
	promotionThreshold int
	logger             *zap.Logger
}

// NewLearner creates a new Learner. A threshold below 1 falls back to the default.
func NewLearner(customerAliases alias.CustomerAliasRepository, globalAliases alias.GlobalAliasRepository, promotionThreshold int, logger *zap.Logger) *Learner {
	if promotionThreshold < 1 {
		promotionThreshold = DefaultPromotionThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Learner{
		customerAliases:    customerAliases,
		globalAliases:      globalAliases,
		promotionThreshold: promotionThreshold,
		logger:             logger.Named("alias_learner"),
	}
}

// Learn records a confirmed mapping. It never returns an error: alias
// memory is an optimization, so storage failures are logged and swallowed
// rather than failing the submission that triggered them.
func (l *Learner) Learn(ctx context.Context, input LearnInput) {
	ctx, span := telemetry.StartServiceSpan(ctx, "alias", "learn")
	defer span.End()

	key := textmatch.Normalize(input.RawText)
	if !textmatch.HasSignal(key) {
		return
	}

	// Only learn genuine paraphrases. Near-identical text teaches nothing,
	// and near-zero similarity means the confirmation was probably a
	// correction of a bad parse, not an alias.
	score := textmatch.Score(key, textmatch.Normalize(input.Label))
	if !textmatch.Learnable(score) {
		l.logger.Debug("Skipping unlearnable mapping",
			zap.String("key", key),
			zap.Float64("score", score),
		)
		return
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrAliasKey, key)

	record, err := alias.NewCustomerAlias(input.OrgID, input.CustomerID, key, input.ProductID)
	if err != nil {
		l.logger.Warn("Failed to build customer alias", zap.Error(err), zap.String("key", key))
		return
	}

	count, err := l.customerAliases.Upsert(ctx, record)
	if err != nil {
		l.logger.Warn("Failed to persist customer alias",
			zap.Error(err),
			zap.String("key", key),
			zap.String("org_id", input.OrgID.String()),
		)
		telemetry.RecordError(span, err)
		return
	}

	if count < l.promotionThreshold {
		return
	}

	global, err := alias.NewGlobalAlias(input.OrgID, key, input.ProductID, score)
	if err != nil {
		l.logger.Warn("Failed to build global alias", zap.Error(err), zap.String("key", key))
		return
	}

	if _, err := l.globalAliases.Upsert(ctx, global); err != nil {
		l.logger.Warn("Failed to promote alias to global tier",
			zap.Error(err),
			zap.String("key", key),
			zap.String("org_id", input.OrgID.String()),
		)
		telemetry.RecordError(span, err)
		return
	}

	telemetry.AddEvent(span, "alias_promoted", "key", key, "occurrence_count", count)
	l.logger.Info("Alias promoted to global tier",
		zap.String("key", key),
		zap.Int("occurrence_count", count),
	)
}
