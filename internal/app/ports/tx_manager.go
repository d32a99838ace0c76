package ports

import "context"

// TxManager runs fn with a context carrying the transaction. Repositories
// pick the transaction up from ctx.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
