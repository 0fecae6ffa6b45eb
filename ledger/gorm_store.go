package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"papertrade/models"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by the given gorm connection.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Append(ctx context.Context, t *models.Transaction) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

func (s *gormStore) TransactionsForUser(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC, id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return transactions, nil
}

func (s *gormStore) Cash(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch cash balance: %w", err)
	}
	return user.Cash, nil
}

func (s *gormStore) SetCash(ctx context.Context, userID uint, amount decimal.Decimal) error {
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("cash", amount).Error
	if err != nil {
		return fmt.Errorf("failed to update cash balance: %w", err)
	}
	return nil
}

func (s *gormStore) RecordTrade(ctx context.Context, t *models.Transaction, newCash decimal.Decimal) error {
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Create(t).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	err := tx.Model(&models.User{}).
		Where("id = ?", t.UserID).
		Update("cash", newCash).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update cash balance: %w", err)
	}

	return tx.Commit().Error
}
