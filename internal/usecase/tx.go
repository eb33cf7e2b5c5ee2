package usecase

import "context"

// TxManager runs a function inside one relational transaction. Every
// mutating operation in this package goes through it: either all writes of
// an operation land or none do. Implementations must be reentrant: a
// WithinTx call from inside an open transaction joins it instead of opening
// a second one (the rollover engine runs inside result processing this way).
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTxManager satisfies TxManager without transactional semantics. The
// memory repositories use it in tests.
type NopTxManager struct{}

func (NopTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
