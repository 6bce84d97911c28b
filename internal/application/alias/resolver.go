// Package alias contains the application services around alias memory:
// resolving what a customer meant, and learning from what they confirmed.
package alias

import (
	"context"
	"errors"

	"github.com/chatcart/backend/internal/domain/alias"
	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/chatcart/backend/internal/domain/shared/textmatch"
	"github.com/chatcart/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// Source identifies which alias tier produced a match
type Source string

const (
	SourceCustomer Source = "customer"
	SourceGlobal   Source = "global"
)

// Match is a resolved alias hit
type Match struct {
	ProductID   uuid.UUID
	Key         string
	Source      Source
	Occurrences int
	Confidence  float64 // 1.0 for customer-tier hits
}

// Resolver answers "which product does this text mean" from alias memory.
// The customer's own memory always beats the store-wide tier.
type Resolver struct {
	customerAliases alias.CustomerAliasRepository
	globalAliases   alias.GlobalAliasRepository
}

// NewResolver creates a new Resolver
func NewResolver(customerAliases alias.CustomerAliasRepository, globalAliases alias.GlobalAliasRepository) *Resolver {
	return &Resolver{
		customerAliases: customerAliases,
		globalAliases:   globalAliases,
	}
}

// Resolve looks up the normalized form of rawText in both alias tiers.
// Returns nil without error when nothing matches or the text carries no
// signal. Storage failures propagate; resolution is on the critical path.
func (r *Resolver) Resolve(ctx context.Context, orgID uuid.UUID, customerID *uuid.UUID, rawText string) (*Match, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "alias", "resolve")
	defer span.End()

	key := textmatch.Normalize(rawText)
	if !textmatch.HasSignal(key) {
		return nil, nil
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrAliasKey, key)

	if customerID != nil {
		record, err := r.customerAliases.FindBest(ctx, orgID, *customerID, key)
		switch {
		case err == nil:
			return &Match{
				ProductID:   record.ProductID,
				Key:         key,
				Source:      SourceCustomer,
				Occurrences: record.OccurrenceCount,
				Confidence:  1.0,
			}, nil
		case !errors.Is(err, shared.ErrNotFound):
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	record, err := r.globalAliases.FindBest(ctx, orgID, key)
	switch {
	case err == nil:
		return &Match{
			ProductID:   record.ProductID,
			Key:         key,
			Source:      SourceGlobal,
			Occurrences: record.OccurrenceCount,
			Confidence:  record.Confidence,
		}, nil
	case errors.Is(err, shared.ErrNotFound):
		return nil, nil
	default:
		telemetry.RecordError(span, err)
		return nil, err
	}
}
