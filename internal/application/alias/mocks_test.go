package alias

import (
	"context"

	"github.com/chatcart/backend/internal/domain/alias"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCustomerAliasRepository is a mock implementation of alias.CustomerAliasRepository
type MockCustomerAliasRepository struct {
	mock.Mock
}

func (m *MockCustomerAliasRepository) FindBest(ctx context.Context, orgID, customerID uuid.UUID, key string) (*alias.CustomerAlias, error) {
	args := m.Called(ctx, orgID, customerID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alias.CustomerAlias), args.Error(1)
}

func (m *MockCustomerAliasRepository) Upsert(ctx context.Context, record *alias.CustomerAlias) (int, error) {
	args := m.Called(ctx, record)
	return args.Int(0), args.Error(1)
}

func (m *MockCustomerAliasRepository) FindByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]alias.CustomerAlias, error) {
	args := m.Called(ctx, orgID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alias.CustomerAlias), args.Error(1)
}

// MockGlobalAliasRepository is a mock implementation of alias.GlobalAliasRepository
type MockGlobalAliasRepository struct {
	mock.Mock
}

func (m *MockGlobalAliasRepository) FindBest(ctx context.Context, orgID uuid.UUID, key string) (*alias.GlobalAlias, error) {
	args := m.Called(ctx, orgID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alias.GlobalAlias), args.Error(1)
}

func (m *MockGlobalAliasRepository) Upsert(ctx context.Context, record *alias.GlobalAlias) (int, error) {
	args := m.Called(ctx, record)
	return args.Int(0), args.Error(1)
}

func (m *MockGlobalAliasRepository) FindByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]alias.GlobalAlias, error) {
	args := m.Called(ctx, orgID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alias.GlobalAlias), args.Error(1)
}
