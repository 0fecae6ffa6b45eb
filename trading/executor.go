// Package trading validates and records buy/sell orders against the ledger.
package trading

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/ledger"
	"papertrade/models"
	"papertrade/portfolio"
	"papertrade/quotes"
)

var (
	// ErrInvalidShares is returned when the requested share count is not a
	// positive integer.
	ErrInvalidShares = errors.New("share amount must be a positive integer")
	// ErrInsufficientFunds is returned when a buy would cost more than the
	// user's cash balance.
	ErrInsufficientFunds = errors.New("not enough cash")
	// ErrInsufficientShares is returned when a sell exceeds the user's
	// current holding.
	ErrInsufficientShares = errors.New("not enough shares")
)

// Executor records validated trades. The read-validate-write window for a
// given user is serialized with a per-user lock so concurrent orders from the
// same account cannot both pass validation against a stale balance; orders
// from different users proceed in parallel.
type Executor struct {
	Store    ledger.Store
	Quotes   quotes.Provider
	Valuator *portfolio.Valuator

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewExecutor(store ledger.Store, provider quotes.Provider, valuator *portfolio.Valuator) *Executor {
	return &Executor{
		Store:    store,
		Quotes:   provider,
		Valuator: valuator,
		locks:    make(map[uint]*sync.Mutex),
	}
}

// Buy purchases shares of symbol at the current quoted price. The quote is
// taken at execution time; the price shown when the form was rendered may
// have moved since. No ledger or cash write happens unless every check
// passes, and the write is atomic.
func (e *Executor) Buy(ctx context.Context, userID uint, symbol string, shares int64) (*models.Transaction, error) {
	if shares <= 0 {
		return nil, ErrInvalidShares
	}

	defer e.lock(userID)()

	quote, err := e.Quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	cost := quote.Price.Mul(decimal.NewFromInt(shares))

	cash, err := e.Store.Cash(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cost.GreaterThan(cash) {
		return nil, ErrInsufficientFunds
	}

	t := &models.Transaction{
		UserID:     userID,
		Stock:      quote.Symbol,
		Shares:     shares,
		Price:      cost,
		StockPrice: quote.Price,
		Timestamp:  time.Now(),
	}
	if err := e.Store.RecordTrade(ctx, t, cash.Sub(cost)); err != nil {
		return nil, err
	}
	return t, nil
}

// Sell disposes of shares of symbol at the current quoted price. Holding
// sufficiency is checked before the quote is resolved so the caller always
// sees the earliest applicable error.
func (e *Executor) Sell(ctx context.Context, userID uint, symbol string, shares int64) (*models.Transaction, error) {
	if shares <= 0 {
		return nil, ErrInvalidShares
	}

	defer e.lock(userID)()

	holdings, err := e.Valuator.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if shares > holdings[normalize(symbol)] {
		return nil, ErrInsufficientShares
	}

	quote, err := e.Quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	proceeds := quote.Price.Mul(decimal.NewFromInt(shares))

	cash, err := e.Store.Cash(ctx, userID)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		UserID:     userID,
		Stock:      quote.Symbol,
		Shares:     -shares,
		Price:      proceeds,
		StockPrice: quote.Price,
		Timestamp:  time.Now(),
	}
	if err := e.Store.RecordTrade(ctx, t, cash.Add(proceeds)); err != nil {
		return nil, err
	}
	return t, nil
}

// normalize matches the symbol form the ledger stores: upper-cased, trimmed.
func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// lock acquires the per-user mutex and returns its release func.
func (e *Executor) lock(userID uint) func() {
	e.mu.Lock()
	l, ok := e.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[userID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}
