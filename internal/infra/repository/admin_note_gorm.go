package repository

import (
	"context"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
	repo "github.com/mayankmishra0403/printhub/internal/repository"

	"gorm.io/gorm"
)

type adminNoteGormRepository struct {
	db *gorm.DB
}

func NewAdminNoteGormRepository(db *gorm.DB) repo.AdminNoteRepository {
	return &adminNoteGormRepository{db: db}
}

func (r *adminNoteGormRepository) Create(ctx context.Context, note *model.AdminNote) error {
	return mapError(r.db.WithContext(ctx).Create(note).Error)
}

func (r *adminNoteGormRepository) ListByOrderID(ctx context.Context, orderID string) ([]model.AdminNote, error) {
	var notes []model.AdminNote
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
