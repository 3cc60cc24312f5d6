package types

import "context"

// OrderTx is the transaction scope for one order plus its lines. The
// order row and every line run inside the same transaction, and
// Commit/Rollback are the only ways out. Rollback after a successful
// commit is a no-op, so a deferred Rollback is a safe cleanup guard.
type OrderTx interface {
	InsertOrder(ctx context.Context, order Order) (int64, error)
	InsertOrderLines(ctx context.Context, lines []OrderLine) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
