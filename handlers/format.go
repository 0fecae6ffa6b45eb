package handlers

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USD renders an amount as a localized dollar string, e.g. $10,000.00.
func USD(amount decimal.Decimal) string {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}
