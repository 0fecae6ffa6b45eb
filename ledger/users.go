package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"papertrade/models"
)

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserStore is the persistence contract for user accounts.
type UserStore interface {
	// CreateUser inserts a new account.
	CreateUser(ctx context.Context, user *models.User) error

	// UserByName returns the account with the given username, or
	// ErrUserNotFound.
	UserByName(ctx context.Context, username string) (*models.User, error)
}

type gormUserStore struct {
	db *gorm.DB
}

// NewUserStore returns a UserStore backed by the given gorm connection.
func NewUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *gormUserStore) UserByName(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}
