// Package portfolio derives holdings and live valuations from the trade
// ledger. Nothing here is persisted; every view is recomputed from the
// transaction log.
package portfolio

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"papertrade/ledger"
	"papertrade/quotes"
)

// Position is one valued holding inside a Snapshot. Price and Value are nil
// when the quote provider could not resolve the symbol; such positions are
// excluded from the snapshot totals.
type Position struct {
	Symbol string
	Name   string
	Shares int64
	Price  *decimal.Decimal
	Value  *decimal.Decimal
}

// Snapshot is an ephemeral valuation of a user's portfolio: current cash,
// per-symbol positions priced with live quotes, and the grand total.
type Snapshot struct {
	Cash       decimal.Decimal
	Positions  []Position
	StockValue decimal.Decimal
	Total      decimal.Decimal
}

// Valuator aggregates the ledger into holdings and combines them with live
// quotes.
type Valuator struct {
	Store  ledger.Store
	Quotes quotes.Provider
}

func NewValuator(store ledger.Store, provider quotes.Provider) *Valuator {
	return &Valuator{Store: store, Quotes: provider}
}

// Holdings returns the net share count per symbol: the sum of signed share
// counts over every transaction the user has recorded. Symbols whose sum is
// zero stay in the map; callers that only care about owned stock filter on a
// positive count.
func (v *Valuator) Holdings(ctx context.Context, userID uint) (map[string]int64, error) {
	transactions, err := v.Store.TransactionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdings := make(map[string]int64)
	for _, t := range transactions {
		holdings[t.Stock] += t.Shares
	}
	return holdings, nil
}

// OwnedSymbols lists the symbols the user currently holds shares of, sorted.
func (v *Valuator) OwnedSymbols(ctx context.Context, userID uint) ([]string, error) {
	holdings, err := v.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for symbol, shares := range holdings {
		if shares > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// Snapshot values the user's portfolio at current prices. A symbol the
// provider cannot resolve is reported without a price and left out of the
// totals; a stale or delisted listing must not fail the whole view.
func (v *Valuator) Snapshot(ctx context.Context, userID uint) (*Snapshot, error) {
	holdings, err := v.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}

	cash, err := v.Store.Cash(ctx, userID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for symbol, shares := range holdings {
		if shares != 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	snapshot := &Snapshot{Cash: cash, StockValue: decimal.Zero}
	for _, symbol := range symbols {
		shares := holdings[symbol]
		position := Position{Symbol: symbol, Shares: shares}

		quote, err := v.Quotes.Lookup(ctx, symbol)
		if err == nil {
			value := quote.Price.Mul(decimal.NewFromInt(shares))
			position.Name = quote.Name
			position.Price = &quote.Price
			position.Value = &value
			snapshot.StockValue = snapshot.StockValue.Add(value)
		}

		snapshot.Positions = append(snapshot.Positions, position)
	}

	snapshot.Total = snapshot.Cash.Add(snapshot.StockValue)
	return snapshot, nil
}
