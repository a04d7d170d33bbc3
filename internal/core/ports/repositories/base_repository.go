package repositories

import (
	"context"
)

// Tx is an open unit of work. Repositories obtained from a Tx read and write
// inside the same transaction; nothing they do is visible to others until
// Commit.
type Tx interface {
	// Documents returns the document repository bound to this transaction.
	Documents() DocumentRepositoryFacade

	// Payments returns the payment repository bound to this transaction.
	Payments() PaymentRepositoryFacade

	// Commit makes every write of the transaction visible and releases its locks.
	Commit(ctx context.Context) error

	// Rollback discards every write and releases locks. Rolling back a finished
	// transaction is a no-op.
	Rollback(ctx context.Context) error
}

// UnitOfWork starts transactions.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Tx, error)
}
