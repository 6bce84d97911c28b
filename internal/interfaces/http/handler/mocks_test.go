package handler

import (
	"context"

	aliasapp "github.com/chatcart/backend/internal/application/alias"
	"github.com/chatcart/backend/internal/domain/alias"
	"github.com/chatcart/backend/internal/domain/catalog"
	"github.com/chatcart/backend/internal/domain/clarify"
	"github.com/chatcart/backend/internal/domain/ordering"
	"github.com/chatcart/backend/internal/infrastructure/transport"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository implements ordering.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAlternatives(ctx context.Context, orgID uuid.UUID, canonical string, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, orgID, canonical, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockLogRepository implements clarify.LogRepository for testing
type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) Append(ctx context.Context, record *clarify.LogRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLogRepository) CountByTokenHash(ctx context.Context, orgID uuid.UUID, tokenHash string) (int64, error) {
	args := m.Called(ctx, orgID, tokenHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLogRepository) FindByOrder(ctx context.Context, orgID, orderID uuid.UUID) ([]clarify.LogRecord, error) {
	args := m.Called(ctx, orgID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clarify.LogRecord), args.Error(1)
}

// MockCustomerAliasRepository implements alias.CustomerAliasRepository for testing
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

// MockGlobalAliasRepository implements alias.GlobalAliasRepository for testing
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

// MockSender implements transport.Sender for testing
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg transport.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// noopLearner satisfies the clarify service's learner dependency
type noopLearner struct{}

func (noopLearner) Learn(context.Context, aliasapp.LearnInput) {}
