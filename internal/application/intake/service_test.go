package intake

import (
	"context"
	"testing"
	"time"

	aliasapp "github.com/chatcart/backend/internal/application/alias"
	clarifyapp "github.com/chatcart/backend/internal/application/clarify"
	"github.com/chatcart/backend/internal/domain/alias"
	"github.com/chatcart/backend/internal/domain/ordering"
	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/chatcart/backend/internal/infrastructure/cache"
	"github.com/chatcart/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

// MockLinkIssuer is a mock implementation of LinkIssuer
type MockLinkIssuer struct {
	mock.Mock
}

func (m *MockLinkIssuer) IssueLink(ctx context.Context, input clarifyapp.IssueLinkInput) (*clarifyapp.IssueLinkResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clarifyapp.IssueLinkResult), args.Error(1)
}

type intakeFixture struct {
	orders       *MockOrderRepository
	customerRepo *MockCustomerAliasRepository
	globalRepo   *MockGlobalAliasRepository
	links        *MockLinkIssuer
	dedup        *cache.InMemoryMessageDedup
	service      *Service
}

func newIntakeFixture(t *testing.T) *intakeFixture {
	t.Helper()

	f := &intakeFixture{
		orders:       new(MockOrderRepository),
		customerRepo: new(MockCustomerAliasRepository),
		globalRepo:   new(MockGlobalAliasRepository),
		links:        new(MockLinkIssuer),
		dedup:        cache.NewInMemoryMessageDedup(100),
	}
	t.Cleanup(func() { _ = f.dedup.Close() })

	resolver := aliasapp.NewResolver(f.customerRepo, f.globalRepo)
	cfg := config.ClarifyConfig{MaxOptions: 5, PromotionThreshold: 3, DedupTTL: time.Minute}
	f.service = NewService(f.orders, resolver, f.links, f.dedup, cfg, zap.NewNop())
	return f
}

func TestService_Process_AutoResolvesKnownAlias(t *testing.T) {
	f := newIntakeFixture(t)
	orgID := uuid.New()
	customerID := uuid.New()
	productID := uuid.New()

	record, err := alias.NewCustomerAlias(orgID, customerID, "maginoodles", productID)
	require.NoError(t, err)

	f.customerRepo.On("FindBest", mock.Anything, orgID, customerID, "maginoodles").Return(record, nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)

	result, err := f.service.Process(context.Background(), Input{
		OrgID:      orgID,
		CustomerID: &customerID,
		MessageID:  "wamid.1",
		Lines: []LineInput{
			{RawName: "magi noodles", Canonical: "Noodles", Quantity: decimal.NewFromInt(2), Unit: "pack"},
		},
	})

	require.NoError(t, err)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "resolved", result.Lines[0].Status)
	assert.Equal(t, &productID, result.Lines[0].ProductID)
	assert.Equal(t, aliasapp.SourceCustomer, result.Lines[0].Source)
	// No ambiguity survived, so no link was issued.
	f.links.AssertNotCalled(t, "IssueLink", mock.Anything, mock.Anything)
}

func TestService_Process_IssuesLinkForAmbiguousLine(t *testing.T) {
	f := newIntakeFixture(t)
	orgID := uuid.New()
	customerID := uuid.New()

	f.customerRepo.On("FindBest", mock.Anything, orgID, customerID, "noodles").
		Return(nil, shared.ErrNotFound)
	f.globalRepo.On("FindBest", mock.Anything, orgID, "noodles").
		Return(nil, shared.ErrNotFound)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)
	f.links.On("IssueLink", mock.Anything, mock.MatchedBy(func(in clarifyapp.IssueLinkInput) bool {
		return in.LineIndex == 0 && in.Channel == "whatsapp" && in.Recipient == "+15550001111"
	})).Return(&clarifyapp.IssueLinkResult{Token: "tok", URL: "https://shop.example.com/c/tok"}, nil)

	result, err := f.service.Process(context.Background(), Input{
		OrgID:      orgID,
		CustomerID: &customerID,
		MessageID:  "wamid.2",
		Channel:    "whatsapp",
		Recipient:  "+15550001111",
		Lines: []LineInput{
			{RawName: "noodles", Canonical: "Noodles", Quantity: decimal.NewFromInt(1), Unit: "pack"},
		},
	})

	require.NoError(t, err)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "link_issued", result.Lines[0].Status)
	assert.Equal(t, "https://shop.example.com/c/tok", result.Lines[0].LinkURL)
	f.links.AssertExpectations(t)
}

func TestService_Process_MixedLines(t *testing.T) {
	f := newIntakeFixture(t)
	orgID := uuid.New()
	productID := uuid.New()

	f.globalRepo.On("FindBest", mock.Anything, orgID, "amulmilk").
		Return(&alias.GlobalAlias{OrgID: orgID, Key: "amulmilk", ProductID: productID, OccurrenceCount: 5, Confidence: 0.8}, nil)
	f.globalRepo.On("FindBest", mock.Anything, orgID, "noodles").
		Return(nil, shared.ErrNotFound)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)
	f.links.On("IssueLink", mock.Anything, mock.MatchedBy(func(in clarifyapp.IssueLinkInput) bool {
		return in.LineIndex == 1
	})).Return(&clarifyapp.IssueLinkResult{Token: "tok", URL: "https://shop.example.com/c/tok"}, nil)

	result, err := f.service.Process(context.Background(), Input{
		OrgID:     orgID,
		MessageID: "wamid.3",
		Lines: []LineInput{
			{RawName: "amul milk", Canonical: "Milk", Quantity: decimal.NewFromInt(1), Unit: "carton"},
			{RawName: "noodles", Canonical: "Noodles", Quantity: decimal.NewFromInt(2), Unit: "pack"},
		},
	})

	require.NoError(t, err)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, "resolved", result.Lines[0].Status)
	assert.Equal(t, aliasapp.SourceGlobal, result.Lines[0].Source)
	assert.Equal(t, "link_issued", result.Lines[1].Status)
}

func TestService_Process_DuplicateMessage(t *testing.T) {
	f := newIntakeFixture(t)
	orgID := uuid.New()

	f.globalRepo.On("FindBest", mock.Anything, orgID, mock.AnythingOfType("string")).
		Return(nil, shared.ErrNotFound)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)
	f.links.On("IssueLink", mock.Anything, mock.Anything).
		Return(&clarifyapp.IssueLinkResult{Token: "tok", URL: "u"}, nil)

	input := Input{
		OrgID:     orgID,
		MessageID: "wamid.4",
		Lines: []LineInput{
			{RawName: "noodles", Canonical: "Noodles", Quantity: decimal.NewFromInt(1), Unit: "pack"},
		},
	}

	_, err := f.service.Process(context.Background(), input)
	require.NoError(t, err)

	_, err = f.service.Process(context.Background(), input)
	assert.ErrorIs(t, err, ErrDuplicateMessage)
	f.orders.AssertNumberOfCalls(t, "Save", 1)
}

func TestService_Process_LinkFailureDowngradesLine(t *testing.T) {
	f := newIntakeFixture(t)
	orgID := uuid.New()

	f.globalRepo.On("FindBest", mock.Anything, orgID, "noodles").
		Return(nil, shared.ErrNotFound)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)
	f.links.On("IssueLink", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	result, err := f.service.Process(context.Background(), Input{
		OrgID:     orgID,
		MessageID: "wamid.5",
		Lines: []LineInput{
			{RawName: "noodles", Canonical: "Noodles", Quantity: decimal.NewFromInt(1), Unit: "pack"},
		},
	})

	// The order survives; the line stays open for an operator to retry.
	require.NoError(t, err)
	assert.Equal(t, "needs_clarification", result.Lines[0].Status)
}

func TestService_Process_ResolutionErrorFailsIntake(t *testing.T) {
	f := newIntakeFixture(t)
	orgID := uuid.New()

	f.globalRepo.On("FindBest", mock.Anything, orgID, "noodles").
		Return(nil, assert.AnError)

	_, err := f.service.Process(context.Background(), Input{
		OrgID:     orgID,
		MessageID: "wamid.6",
		Lines: []LineInput{
			{RawName: "noodles", Canonical: "Noodles", Quantity: decimal.NewFromInt(1), Unit: "pack"},
		},
	})

	assert.ErrorIs(t, err, assert.AnError)
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Process_EmptyOrder(t *testing.T) {
	f := newIntakeFixture(t)

	_, err := f.service.Process(context.Background(), Input{OrgID: uuid.New(), MessageID: "wamid.7"})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMPTY_ORDER", domainErr.Code)
}
