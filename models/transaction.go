package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one row of the append-only trade ledger. Shares is signed:
// positive for a buy, negative for a sell. Price is the total amount charged
// or credited; StockPrice is the per-share quote at execution time.
// Rows are never updated or deleted.
type Transaction struct {
	gorm.Model
	UserID     uint   `gorm:"index"`
	Stock      string `gorm:"index"`
	Shares     int64
	Price      decimal.Decimal `gorm:"type:numeric"`
	StockPrice decimal.Decimal `gorm:"type:numeric"`
	Timestamp  time.Time       `gorm:"default:CURRENT_TIMESTAMP"`
}
