package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string          `gorm:"uniqueIndex"`
	Hash     string
	Cash     decimal.Decimal `gorm:"type:numeric"`
}
