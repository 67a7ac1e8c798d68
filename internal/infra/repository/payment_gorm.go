package repository

import (
	"context"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
	repo "github.com/mayankmishra0403/printhub/internal/repository"

	"gorm.io/gorm"
)

type paymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) repo.PaymentRepository {
	return &paymentGormRepository{db: db}
}

func (r *paymentGormRepository) Create(ctx context.Context, p *model.Payment) error {
	return mapError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *paymentGormRepository) ListByOrderID(ctx context.Context, orderID string) ([]model.Payment, error) {
	var items []model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
