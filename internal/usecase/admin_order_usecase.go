package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mayankmishra0403/printhub/internal/domain/lifecycle"
	"github.com/mayankmishra0403/printhub/internal/domain/model"
	"github.com/mayankmishra0403/printhub/internal/infra/mail"
	"github.com/mayankmishra0403/printhub/internal/logger"
	repo "github.com/mayankmishra0403/printhub/internal/repository"

	"go.uber.org/zap"
)

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	notes  repo.AdminNoteRepository
	policy lifecycle.Policy
	mailer mail.Mailer
	clock  Clock
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	notes repo.AdminNoteRepository,
	policy lifecycle.Policy,
	mailer mail.Mailer,
	clock Clock,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:     tx,
		orders: orders,
		notes:  notes,
		policy: policy,
		mailer: mailer,
		clock:  clock,
	}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	Query  string
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

type AdminAddNoteInput struct {
	Note       string
	IsInternal *bool
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (OrderListOutput, error) {
	if in.Page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	f := repo.AdminOrderListFilter{Page: in.Page, Limit: in.Limit, Query: strings.TrimSpace(in.Query)}
	if s := strings.TrimSpace(in.Status); s != "" && !strings.EqualFold(s, "all") {
		st, err := lifecycle.ParseStatus(s)
		if err != nil {
			return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = st
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OrderListOutput{Orders: orders, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *AdminOrderUsecase) Stats(ctx context.Context) (repo.OrderStats, error) {
	s, err := u.orders.Stats(ctx)
	if err != nil {
		return repo.OrderStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

// AdminOrderDetail is an order with everything the admin console shows
// beside it.
type AdminOrderDetail struct {
	Order    model.Order       `json:"order"`
	Payments []model.Payment   `json:"payments"`
	History  []model.AuditLog  `json:"history"`
	Notes    []model.AdminNote `json:"notes"`
}

func (u *AdminOrderUsecase) GetOrderDetail(ctx context.Context, orderID string) (AdminOrderDetail, error) {
	if !validID(orderID) {
		return AdminOrderDetail{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	var out AdminOrderDetail
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		payments, err := r.Payments().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		history, err := r.AuditLogs().ListForResource(ctx, model.AuditResourceOrder, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = AdminOrderDetail{Order: o, Payments: payments, History: history}
		return nil
	})
	if err != nil {
		return AdminOrderDetail{}, err
	}

	if out.Notes, err = u.ListNotes(ctx, orderID); err != nil {
		return AdminOrderDetail{}, err
	}
	if out.Payments == nil {
		out.Payments = []model.Payment{}
	}
	if out.History == nil {
		out.History = []model.AuditLog{}
	}
	return out, nil
}

type statusSnapshot struct {
	OrderStatus   model.OrderStatus   `json:"order_status"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
}

func snapshotJSON(o model.Order) string {
	b, _ := json.Marshal(statusSnapshot{OrderStatus: o.OrderStatus, PaymentStatus: o.PaymentStatus})
	return string(b)
}

// UpdateStatus moves an order to a new status under the configured policy.
// Setting the current status again succeeds without writing anything.
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID string, orderID string, in AdminUpdateOrderStatusInput) (model.Order, error) {
	if actorAdminUserID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !validID(orderID) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	var (
		updated model.Order
		changed bool
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		next, ok, err := lifecycle.Transition(u.policy, o.OrderStatus, in.Status)
		switch {
		case errors.Is(err, lifecycle.ErrUnknownStatus):
			return NewHTTPError(http.StatusBadRequest, "invalid status")
		case errors.Is(err, lifecycle.ErrTransitionDenied):
			return NewHTTPError(http.StatusConflict, "cannot change order from "+string(o.OrderStatus)+" to "+strings.ToLower(strings.TrimSpace(in.Status)))
		case err != nil:
			return NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		if !ok {
			updated = o
			return nil
		}

		before := snapshotJSON(o)
		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		o.OrderStatus = next
		o.UpdatedAt = u.clock.Now()

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   before,
			AfterJSON:    snapshotJSON(o),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		updated = o
		changed = true
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	if changed {
		u.notifyStatus(ctx, updated)
	}
	return updated, nil
}

func (u *AdminOrderUsecase) notifyStatus(ctx context.Context, o model.Order) {
	msg, err := mail.StatusUpdateMessage(o)
	if err == nil {
		err = u.mailer.Send(ctx, msg)
	}
	if err != nil {
		logger.Log.Warn("status email failed", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (u *AdminOrderUsecase) AddNote(ctx context.Context, adminID string, orderID string, in AdminAddNoteInput) (model.AdminNote, error) {
	if adminID == "" {
		return model.AdminNote{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	note := strings.TrimSpace(in.Note)
	if note == "" {
		return model.AdminNote{}, NewHTTPError(http.StatusBadRequest, "note is required")
	}
	if !validID(orderID) {
		return model.AdminNote{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if _, err := u.orders.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.AdminNote{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.AdminNote{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	internal := true
	if in.IsInternal != nil {
		internal = *in.IsInternal
	}
	n := model.AdminNote{
		OrderID:    orderID,
		AdminID:    adminID,
		Note:       note,
		IsInternal: internal,
		CreatedAt:  u.clock.Now(),
	}
	if err := u.notes.Create(ctx, &n); err != nil {
		return model.AdminNote{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return n, nil
}

func (u *AdminOrderUsecase) ListNotes(ctx context.Context, orderID string) ([]model.AdminNote, error) {
	if !validID(orderID) {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	notes, err := u.notes.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if notes == nil {
		notes = []model.AdminNote{}
	}
	return notes, nil
}
