package repository

import "context"

// TxRepos are repositories bound to one transaction.
type TxRepos interface {
	Orders() OrderRepository
	Payments() PaymentRepository
	AuditLogs() AuditLogRepository
}

// TransactionManager hides begin/commit/rollback from use cases.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
