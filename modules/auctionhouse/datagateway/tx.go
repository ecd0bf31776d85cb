package datagateway

import "context"

// Tx is the unit of work of a single engine operation.
type Tx interface {
	// Commit persists every write made since the transaction began and closes it.
	// It's a no-op on a gateway that isn't in a transaction.
	Commit(ctx context.Context) error
	// Rollback discards every write made since the transaction began.
	// It must be safe to call after Commit, so it can always be deferred.
	Rollback(ctx context.Context) error
}
