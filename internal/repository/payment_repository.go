package repository

import (
	"context"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
)

type PaymentRepository interface {
	// Create returns ErrConflict for a duplicate transaction id.
	Create(ctx context.Context, p *model.Payment) error
	ListByOrderID(ctx context.Context, orderID string) ([]model.Payment, error)
}
