package repository

import (
	"context"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status model.OrderStatus
	// Query matches name, email, phone or order id (case-insensitive).
	Query string
}

type OrderStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Delivered  int64 `json:"delivered"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	// FindByIDForUpdate locks the row; use only inside WithinTx.
	FindByIDForUpdate(ctx context.Context, orderID string) (model.Order, error)
	ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	// SetGatewayOrderID records the gateway order of a checkout on an unpaid
	// order. ErrConflict when the order is already paid.
	SetGatewayOrderID(ctx context.Context, orderID string, gatewayOrderID string) error
	// MarkPaid flips payment_status to paid and order_status to confirmed.
	// ErrConflict when the order is already paid.
	MarkPaid(ctx context.Context, orderID string, transactionID string) error

	// admin console
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	Stats(ctx context.Context) (OrderStats, error)
}
