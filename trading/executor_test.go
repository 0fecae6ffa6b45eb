package trading

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"papertrade/ledger"
	"papertrade/models"
	"papertrade/portfolio"
	"papertrade/quotes"
)

// MockStore is a mock implementation of ledger.Store for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Append(ctx context.Context, t *models.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockStore) TransactionsForUser(ctx context.Context, userID uint) ([]models.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockStore) Cash(ctx context.Context, userID uint) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStore) SetCash(ctx context.Context, userID uint, amount decimal.Decimal) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockStore) RecordTrade(ctx context.Context, t *models.Transaction, newCash decimal.Decimal) error {
	args := m.Called(ctx, t, newCash)
	return args.Error(0)
}

// MockProvider is a mock implementation of quotes.Provider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Lookup(ctx context.Context, symbol string) (*quotes.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotes.Quote), args.Error(1)
}

func newTestExecutor(store ledger.Store, provider quotes.Provider) *Executor {
	return NewExecutor(store, provider, portfolio.NewValuator(store, provider))
}

func cashEquals(want decimal.Decimal) interface{} {
	return mock.MatchedBy(func(got decimal.Decimal) bool {
		return got.Equal(want)
	})
}

func TestBuy_RecordsTransactionAndDebitsCash(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	provider := new(MockProvider)
	executor := newTestExecutor(store, provider)

	provider.On("Lookup", ctx, "AAPL").Return(&quotes.Quote{
		Symbol: "AAPL",
		Name:   "Apple Inc",
		Price:  decimal.NewFromInt(50),
	}, nil)
	store.On("Cash", ctx, uint(1)).Return(decimal.NewFromInt(10000), nil)
	store.On("RecordTrade", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.UserID == 1 &&
			tx.Stock == "AAPL" &&
			tx.Shares == 3 &&
			tx.Price.Equal(decimal.NewFromInt(150)) &&
			tx.StockPrice.Equal(decimal.NewFromInt(50))
	}), cashEquals(decimal.NewFromInt(9850))).Return(nil)

	tx, err := executor.Buy(ctx, 1, "AAPL", 3)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), tx.Shares)
	assert.True(t, tx.Price.Equal(decimal.NewFromInt(150)))
	store.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestBuy_InsufficientFundsLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	provider := new(MockProvider)
	executor := newTestExecutor(store, provider)

	// Cash 100, cost 150: the buy must be rejected with no write.
	provider.On("Lookup", ctx, "AAPL").Return(&quotes.Quote{
		Symbol: "AAPL",
		Name:   "Apple Inc",
		Price:  decimal.NewFromInt(50),
	}, nil)
	store.On("Cash", ctx, uint(1)).Return(decimal.NewFromInt(100), nil)

	_, err := executor.Buy(ctx, 1, "AAPL", 3)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	store.AssertNotCalled(t, "RecordTrade", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "SetCash", mock.Anything, mock.Anything, mock.Anything)
}

func TestBuy_UnknownSymbolRejectedBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	provider := new(MockProvider)
	executor := newTestExecutor(store, provider)

	provider.On("Lookup", ctx, "ZZZZZZ").Return(nil, quotes.ErrUnknownSymbol)

	_, err := executor.Buy(ctx, 1, "ZZZZZZ", 3)

	assert.ErrorIs(t, err, quotes.ErrUnknownSymbol)
	store.AssertNotCalled(t, "Cash", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "RecordTrade", mock.Anything, mock.Anything, mock.Anything)
}

func TestBuy_NonPositiveSharesRejectedFirst(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	provider := new(MockProvider)
	executor := newTestExecutor(store, provider)

	for _, shares := range []int64{0, -5} {
		_, err := executor.Buy(ctx, 1, "AAPL", shares)
		assert.ErrorIs(t, err, ErrInvalidShares)
	}

	// Share validation happens before any store or provider access.
	provider.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Cash", mock.Anything, mock.Anything)
}

func TestSell_RecordsNegativeSharesAndCreditsCash(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	provider := new(MockProvider)
	executor := newTestExecutor(store, provider)

	store.On("TransactionsForUser", ctx, uint(1)).Return([]models.Transaction{
		{UserID: 1, Stock: "AAPL", Shares: 5},
	}, nil)
	provider.On("Lookup", ctx, "AAPL").Return(&quotes.Quote{
		Symbol: "AAPL",
		Name:   "Apple Inc",
		Price:  decimal.NewFromInt(110),
	}, nil)
	store.On("Cash", ctx, uint(1)).Return(decimal.NewFromInt(1000), nil)
	store.On("RecordTrade", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Shares == -5 &&
			tx.Stock == "AAPL" &&
			tx.Price.Equal(decimal.NewFromInt(550)) &&
			tx.StockPrice.Equal(decimal.NewFromInt(110))
	}), cashEquals(decimal.NewFromInt(1550))).Return(nil)

	tx, err := executor.Sell(ctx, 1, "AAPL", 5)

	assert.NoError(t, err)
	assert.Equal(t, int64(-5), tx.Shares)
	store.AssertExpectations(t)
}

func TestSell_InsufficientSharesCheckedBeforeQuote(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	provider := new(MockProvider)
	executor := newTestExecutor(store, provider)

	// Holding 5 AAPL, selling 6 must fail without touching the provider.
	store.On("TransactionsForUser", ctx, uint(1)).Return([]models.Transaction{
		{UserID: 1, Stock: "AAPL", Shares: 8},
		{UserID: 1, Stock: "AAPL", Shares: -3},
	}, nil)

	_, err := executor.Sell(ctx, 1, "AAPL", 6)

	assert.ErrorIs(t, err, ErrInsufficientShares)
	provider.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "RecordTrade", mock.Anything, mock.Anything, mock.Anything)
}

func TestSell_NeverOwnedSymbolIsInsufficient(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	provider := new(MockProvider)
	executor := newTestExecutor(store, provider)

	store.On("TransactionsForUser", ctx, uint(1)).Return([]models.Transaction{}, nil)

	_, err := executor.Sell(ctx, 1, "MSFT", 1)

	assert.ErrorIs(t, err, ErrInsufficientShares)
}

func TestSell_UnknownSymbolAfterHoldingCheck(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	provider := new(MockProvider)
	executor := newTestExecutor(store, provider)

	store.On("TransactionsForUser", ctx, uint(1)).Return([]models.Transaction{
		{UserID: 1, Stock: "AAPL", Shares: 5},
	}, nil)
	provider.On("Lookup", ctx, "AAPL").Return(nil, quotes.ErrUnavailable)

	_, err := executor.Sell(ctx, 1, "AAPL", 5)

	assert.ErrorIs(t, err, quotes.ErrUnavailable)
	store.AssertNotCalled(t, "RecordTrade", mock.Anything, mock.Anything, mock.Anything)
}

// memStore is an in-memory ledger.Store for sequence tests.
type memStore struct {
	cash         decimal.Decimal
	transactions []models.Transaction
}

func (s *memStore) Append(ctx context.Context, t *models.Transaction) error {
	s.transactions = append(s.transactions, *t)
	return nil
}

func (s *memStore) TransactionsForUser(ctx context.Context, userID uint) ([]models.Transaction, error) {
	return s.transactions, nil
}

func (s *memStore) Cash(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return s.cash, nil
}

func (s *memStore) SetCash(ctx context.Context, userID uint, amount decimal.Decimal) error {
	s.cash = amount
	return nil
}

func (s *memStore) RecordTrade(ctx context.Context, t *models.Transaction, newCash decimal.Decimal) error {
	s.transactions = append(s.transactions, *t)
	s.cash = newCash
	return nil
}

// stubProvider serves fixed prices.
type stubProvider struct {
	prices map[string]decimal.Decimal
}

func (p stubProvider) Lookup(ctx context.Context, symbol string) (*quotes.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	price, ok := p.prices[symbol]
	if !ok {
		return nil, quotes.ErrUnknownSymbol
	}
	return &quotes.Quote{Symbol: symbol, Name: symbol + " Inc", Price: price}, nil
}

func TestRoundTrip_BuyThenSellRestoresCashAndHolding(t *testing.T) {
	ctx := context.Background()
	store := &memStore{cash: decimal.NewFromInt(10000)}
	provider := stubProvider{prices: map[string]decimal.Decimal{
		"NFLX": decimal.RequireFromString("123.45"),
	}}
	valuator := portfolio.NewValuator(store, provider)
	executor := NewExecutor(store, provider, valuator)

	_, err := executor.Buy(ctx, 1, "NFLX", 10)
	assert.NoError(t, err)
	assert.True(t, store.cash.Equal(decimal.RequireFromString("8765.50")))

	_, err = executor.Sell(ctx, 1, "NFLX", 10)
	assert.NoError(t, err)

	// Unchanged market price: cash is back to the pre-buy value exactly.
	assert.True(t, store.cash.Equal(decimal.NewFromInt(10000)))

	holdings, err := valuator.Holdings(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), holdings["NFLX"])
}

func TestCashAfterTradeSequence(t *testing.T) {
	ctx := context.Background()
	store := &memStore{cash: decimal.NewFromInt(10000)}
	provider := stubProvider{prices: map[string]decimal.Decimal{
		"AAPL": decimal.NewFromInt(100),
		"MSFT": decimal.NewFromInt(40),
	}}
	valuator := portfolio.NewValuator(store, provider)
	executor := NewExecutor(store, provider, valuator)

	_, err := executor.Buy(ctx, 1, "AAPL", 20) // -2000
	assert.NoError(t, err)
	_, err = executor.Buy(ctx, 1, "MSFT", 50) // -2000
	assert.NoError(t, err)
	_, err = executor.Sell(ctx, 1, "AAPL", 5) // +500
	assert.NoError(t, err)

	// 10000 - 2000 - 2000 + 500
	assert.True(t, store.cash.Equal(decimal.NewFromInt(6500)))

	holdings, err := valuator.Holdings(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), holdings["AAPL"])
	assert.Equal(t, int64(50), holdings["MSFT"])
}
