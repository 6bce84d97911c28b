package clarify

import (
	"context"

	aliasapp "github.com/chatcart/backend/internal/application/alias"
	"github.com/chatcart/backend/internal/domain/catalog"
	"github.com/chatcart/backend/internal/domain/clarify"
	"github.com/chatcart/backend/internal/domain/ordering"
	"github.com/chatcart/backend/internal/infrastructure/transport"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of ordering.OrderRepository
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

// MockProductRepository is a mock implementation of catalog.ProductRepository
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

// MockLogRepository is a mock implementation of clarify.LogRepository
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

// MockSender is a mock implementation of transport.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg transport.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// stubLearner records Learn calls on a channel so tests can wait for the
// background goroutine without sleeping.
type stubLearner struct {
	calls chan aliasapp.LearnInput
}

func newStubLearner() *stubLearner {
	return &stubLearner{calls: make(chan aliasapp.LearnInput, 4)}
}

func (s *stubLearner) Learn(_ context.Context, input aliasapp.LearnInput) {
	s.calls <- input
}
