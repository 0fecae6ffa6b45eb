// Package ledger owns the durable trade ledger: an append-only table of
// transactions plus the per-user cash balance on the users table.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"papertrade/models"
)

// Store is the persistence contract for the trade ledger. Transactions are
// append-only; nothing here can mutate or remove a recorded row.
type Store interface {
	// Append durably records a single transaction.
	Append(ctx context.Context, t *models.Transaction) error

	// TransactionsForUser returns every transaction belonging to the user,
	// oldest first.
	TransactionsForUser(ctx context.Context, userID uint) ([]models.Transaction, error)

	// Cash returns the user's current cash balance.
	Cash(ctx context.Context, userID uint) (decimal.Decimal, error)

	// SetCash overwrites the user's cash balance.
	SetCash(ctx context.Context, userID uint, amount decimal.Decimal) error

	// RecordTrade appends the transaction and sets the user's cash to
	// newCash as one atomic unit. Either both writes land or neither does.
	RecordTrade(ctx context.Context, t *models.Transaction, newCash decimal.Decimal) error
}
