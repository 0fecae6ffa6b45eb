// Package quotes resolves ticker symbols to live name/price quotes.
package quotes

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownSymbol means the provider has no listing for the symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrUnavailable means the provider could not be reached or gave an
	// unusable response.
	ErrUnavailable = errors.New("quote provider unavailable")
)

// Quote is a point-in-time price resolution for a ticker symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Provider looks up live quotes. Lookup returns ErrUnknownSymbol when the
// symbol cannot be resolved and ErrUnavailable on transport failure; a quote
// with a missing name counts as unresolved.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

// HistoryWriter persists observed quotes for later reference.
type HistoryWriter interface {
	SaveQuote(symbol string, price decimal.Decimal, at time.Time) error
}
