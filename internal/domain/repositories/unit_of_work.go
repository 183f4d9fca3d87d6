package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations
type UnitOfWork interface {
	// Do executes fn in a transaction. Repositories called with the ctx
	// passed to fn join that transaction.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
