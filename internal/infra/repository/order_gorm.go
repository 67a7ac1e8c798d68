package repository

import (
	"context"
	"strings"
	"time"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
	repo "github.com/mayankmishra0403/printhub/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return mapError(r.db.WithContext(ctx).Create(order).Error)
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error; err != nil {
		return model.Order{}, mapError(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, mapError(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}
	return items, total, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"order_status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) SetGatewayOrderID(ctx context.Context, orderID string, gatewayOrderID string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, model.PaymentStatusPending).
		Updates(map[string]any{"gateway_order_id": gatewayOrderID, "updated_at": time.Now()})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if _, err := r.FindByID(ctx, orderID); err != nil {
		return err
	}
	return repo.ErrConflict
}

func (r *OrderGormRepository) MarkPaid(ctx context.Context, orderID string, transactionID string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, model.PaymentStatusPending).
		Updates(map[string]any{
			"payment_status": model.PaymentStatusPaid,
			"transaction_id": transactionID,
			"order_status":   model.OrderStatusConfirmed,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// no row: either missing or already paid
	if _, err := r.FindByID(ctx, orderID); err != nil {
		return err
	}
	return repo.ErrConflict
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	page, limit := normalizePage(f.Page, f.Limit)

	q := r.db.WithContext(ctx).Model(&model.Order{})

	if f.Status != "" {
		q = q.Where("order_status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		p := containsPattern(s)
		q = q.Where(
			"full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR CAST(id AS text) ILIKE ?",
			p, p, p, p,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	if err := q.Order("created_at desc").Limit(limit).Offset((page - 1) * limit).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}
	return items, total, nil
}

func (r *OrderGormRepository) Stats(ctx context.Context) (repo.OrderStats, error) {
	var s repo.OrderStats
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select(
			"COUNT(*) AS total, "+
				"COUNT(*) FILTER (WHERE order_status = ?) AS pending, "+
				"COUNT(*) FILTER (WHERE order_status IN ?) AS in_progress, "+
				"COUNT(*) FILTER (WHERE order_status = ?) AS delivered",
			model.OrderStatusPending,
			[]model.OrderStatus{model.OrderStatusConfirmed, model.OrderStatusPrinting},
			model.OrderStatusDelivered,
		).
		Scan(&s).Error
	return s, err
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return page, limit
}
