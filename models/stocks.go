package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockPrice records a quote observed from the pricing provider.
type StockPrice struct {
	gorm.Model
	Symbol    string          `gorm:"index"`
	Price     decimal.Decimal `gorm:"type:numeric"`
	Timestamp time.Time
}
