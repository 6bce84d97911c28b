package persistence

import (
	"context"
	"testing"

	"github.com/chatcart/backend/internal/domain/alias"
	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupAliasTestDB creates an in-memory SQLite database for testing
func setupAliasTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE customer_aliases (
			id TEXT PRIMARY KEY,
			org_id TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			key TEXT NOT NULL,
			product_id TEXT NOT NULL,
			occurrence_count INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(org_id, customer_id, key)
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE global_aliases (
			id TEXT PRIMARY KEY,
			org_id TEXT NOT NULL,
			key TEXT NOT NULL,
			product_id TEXT NOT NULL,
			occurrence_count INTEGER NOT NULL DEFAULT 1,
			confidence REAL NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(org_id, key)
		)
	`).Error
	require.NoError(t, err)

	return db
}

func TestGormCustomerAliasRepository_Upsert(t *testing.T) {
	db := setupAliasTestDB(t)
	repo := NewGormCustomerAliasRepository(db)
	ctx := context.Background()

	orgID := uuid.New()
	customerID := uuid.New()
	productID := uuid.New()

	t.Run("first write inserts with count 1", func(t *testing.T) {
		record, err := alias.NewCustomerAlias(orgID, customerID, "magi", productID)
		require.NoError(t, err)

		count, err := repo.Upsert(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("repeat writes increment the count", func(t *testing.T) {
		record, err := alias.NewCustomerAlias(orgID, customerID, "magi", productID)
		require.NoError(t, err)

		count, err := repo.Upsert(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		record, err = alias.NewCustomerAlias(orgID, customerID, "magi", productID)
		require.NoError(t, err)
		count, err = repo.Upsert(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("latest confirmed product wins", func(t *testing.T) {
		newProduct := uuid.New()
		record, err := alias.NewCustomerAlias(orgID, customerID, "magi", newProduct)
		require.NoError(t, err)

		_, err = repo.Upsert(ctx, record)
		require.NoError(t, err)

		stored, err := repo.FindBest(ctx, orgID, customerID, "magi")
		require.NoError(t, err)
		assert.Equal(t, newProduct, stored.ProductID)
		assert.Equal(t, 4, stored.OccurrenceCount)
	})

	t.Run("different customers keep separate counters", func(t *testing.T) {
		otherCustomer := uuid.New()
		record, err := alias.NewCustomerAlias(orgID, otherCustomer, "magi", productID)
		require.NoError(t, err)

		count, err := repo.Upsert(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestGormCustomerAliasRepository_FindBest(t *testing.T) {
	db := setupAliasTestDB(t)
	repo := NewGormCustomerAliasRepository(db)
	ctx := context.Background()

	t.Run("returns ErrNotFound for unknown key", func(t *testing.T) {
		_, err := repo.FindBest(ctx, uuid.New(), uuid.New(), "never-seen")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("does not leak across orgs", func(t *testing.T) {
		orgID := uuid.New()
		customerID := uuid.New()
		record, err := alias.NewCustomerAlias(orgID, customerID, "chips", uuid.New())
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, record)
		require.NoError(t, err)

		_, err = repo.FindBest(ctx, uuid.New(), customerID, "chips")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCustomerAliasRepository_FindByOrg(t *testing.T) {
	db := setupAliasTestDB(t)
	repo := NewGormCustomerAliasRepository(db)
	ctx := context.Background()

	orgID := uuid.New()
	customerID := uuid.New()

	for _, key := range []string{"rare", "common", "common", "common"} {
		record, err := alias.NewCustomerAlias(orgID, customerID, key, uuid.New())
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, record)
		require.NoError(t, err)
	}

	records, err := repo.FindByOrg(ctx, orgID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "common", records[0].Key)
	assert.Equal(t, 3, records[0].OccurrenceCount)
	assert.Equal(t, "rare", records[1].Key)
}

func TestGormGlobalAliasRepository_Upsert(t *testing.T) {
	db := setupAliasTestDB(t)
	repo := NewGormGlobalAliasRepository(db)
	ctx := context.Background()

	orgID := uuid.New()
	productID := uuid.New()

	t.Run("inserts then increments", func(t *testing.T) {
		record, err := alias.NewGlobalAlias(orgID, "magi", productID, 0.8)
		require.NoError(t, err)
		count, err := repo.Upsert(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		record, err = alias.NewGlobalAlias(orgID, "magi", productID, 0.9)
		require.NoError(t, err)
		count, err = repo.Upsert(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		stored, err := repo.FindBest(ctx, orgID, "magi")
		require.NoError(t, err)
		assert.InDelta(t, 0.9, stored.Confidence, 0.0001)
	})

	t.Run("scoped to org", func(t *testing.T) {
		_, err := repo.FindBest(ctx, uuid.New(), "magi")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
