package alias

import (
	"context"

	"github.com/google/uuid"
)

// CustomerAliasRepository is the customer-scoped alias store.
// Upsert must tolerate concurrent invocation for the same key; an
// occasional lost increment is acceptable because the counter is a ranking
// heuristic, not a correctness-critical value.
type CustomerAliasRepository interface {
	// FindBest returns the highest-occurrence mapping for a key, or
	// shared.ErrNotFound when the customer has never confirmed it.
	FindBest(ctx context.Context, orgID, customerID uuid.UUID, key string) (*CustomerAlias, error)

	// Upsert inserts the record or increments the existing row's count,
	// overwriting product_id with the latest confirmation. It returns the
	// post-write occurrence count.
	Upsert(ctx context.Context, record *CustomerAlias) (int, error)

	// FindByOrg lists an org's customer aliases, ordered by count desc.
	FindByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]CustomerAlias, error)
}

// GlobalAliasRepository is the org-wide alias store fed by promotion.
type GlobalAliasRepository interface {
	FindBest(ctx context.Context, orgID uuid.UUID, key string) (*GlobalAlias, error)
	Upsert(ctx context.Context, record *GlobalAlias) (int, error)
	FindByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]GlobalAlias, error)
}
