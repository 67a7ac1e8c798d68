package repository

import (
	"context"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID string) (model.User, error)
	FindBySubject(ctx context.Context, subject string) (model.User, error)
	// Upsert inserts by subject or refreshes email and name of the existing
	// row. Role is never overwritten. Returns the stored row.
	Upsert(ctx context.Context, user model.User) (model.User, error)
}
