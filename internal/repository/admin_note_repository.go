package repository

import (
	"context"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
)

type AdminNoteRepository interface {
	Create(ctx context.Context, note *model.AdminNote) error
	ListByOrderID(ctx context.Context, orderID string) ([]model.AdminNote, error)
}
