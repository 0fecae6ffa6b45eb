package database

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"papertrade/models"
)

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.StockPrice{},
	)
}

// PriceHistory persists quotes observed from the provider into the
// stock_prices table.
type PriceHistory struct {
	DB *gorm.DB
}

func NewPriceHistory(db *gorm.DB) *PriceHistory {
	return &PriceHistory{DB: db}
}

func (h *PriceHistory) SaveQuote(symbol string, price decimal.Decimal, at time.Time) error {
	entry := models.StockPrice{
		Symbol:    symbol,
		Price:     price,
		Timestamp: at,
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to save price history: %w", err)
	}
	return nil
}
