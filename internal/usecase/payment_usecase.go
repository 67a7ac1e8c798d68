package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
	"github.com/mayankmishra0403/printhub/internal/infra/payment"
	"github.com/mayankmishra0403/printhub/internal/logger"
	repo "github.com/mayankmishra0403/printhub/internal/repository"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type PaymentUsecase struct {
	tx      repo.TransactionManager
	orders  repo.OrderRepository
	gateway payment.Gateway
	ids     IDGenerator
	clock   Clock
}

// NewPaymentUsecase accepts a nil gateway; every call then answers 503.
func NewPaymentUsecase(tx repo.TransactionManager, orders repo.OrderRepository, gateway payment.Gateway, ids IDGenerator, clock Clock) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, orders: orders, gateway: gateway, ids: ids, clock: clock}
}

type CheckoutOutput struct {
	KeyID          string `json:"key_id"`
	GatewayOrderID string `json:"razorpay_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	OrderID        string `json:"order_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
}

type ConfirmPaymentInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

func (u *PaymentUsecase) enabled() error {
	if u.gateway == nil {
		return NewHTTPError(http.StatusServiceUnavailable, "payments are not configured")
	}
	return nil
}

func (u *PaymentUsecase) ownedOrder(ctx context.Context, userID, orderID string) (model.Order, error) {
	if userID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !validID(orderID) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID == nil || *o.UserID != userID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return o, nil
}

// Checkout creates the gateway order the browser widget pays against.
func (u *PaymentUsecase) Checkout(ctx context.Context, userID, orderID string) (CheckoutOutput, error) {
	if err := u.enabled(); err != nil {
		return CheckoutOutput{}, err
	}
	o, err := u.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return CheckoutOutput{}, err
	}
	if o.PaymentStatus == model.PaymentStatusPaid {
		return CheckoutOutput{}, NewHTTPError(http.StatusConflict, "order already paid")
	}
	amount := payment.AmountInPaise(o.TotalAmount)
	if amount <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "order has no price yet")
	}

	gw, err := u.gateway.CreateOrder(ctx, amount, o.ID)
	if err != nil {
		logger.Log.Error("gateway order failed", zap.String("order_id", o.ID), zap.Error(err))
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}
	if err := u.orders.SetGatewayOrderID(ctx, o.ID, gw.ID); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return CheckoutOutput{}, NewHTTPError(http.StatusConflict, "order already paid")
		}
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CheckoutOutput{
		KeyID:          u.gateway.KeyID(),
		GatewayOrderID: gw.ID,
		Amount:         gw.Amount,
		Currency:       gw.Currency,
		OrderID:        o.ID,
		Name:           o.FullName,
		Email:          o.Email,
		Phone:          o.Phone,
	}, nil
}

// Confirm records a payment reported by the browser after checking its
// signature. The signed gateway order must be the one Checkout opened for
// this order.
func (u *PaymentUsecase) Confirm(ctx context.Context, userID, orderID string, in ConfirmPaymentInput) (model.Order, error) {
	if err := u.enabled(); err != nil {
		return model.Order{}, err
	}
	in.GatewayOrderID = strings.TrimSpace(in.GatewayOrderID)
	in.PaymentID = strings.TrimSpace(in.PaymentID)
	in.Signature = strings.TrimSpace(in.Signature)
	if in.GatewayOrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}
	if _, err := u.ownedOrder(ctx, userID, orderID); err != nil {
		return model.Order{}, err
	}
	if !u.gateway.VerifyPaymentSignature(in.GatewayOrderID, in.PaymentID, in.Signature) {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid payment signature")
	}

	return u.markPaid(ctx, userID, orderID, in.PaymentID, in.GatewayOrderID, map[string]string{
		"razorpay_order_id":   in.GatewayOrderID,
		"razorpay_payment_id": in.PaymentID,
		"razorpay_signature":  in.Signature,
		"source":              "checkout",
	}, nil)
}

// HandleWebhook confirms payments captured by the gateway. Unrelated events
// and repeats of an already recorded payment are accepted silently.
func (u *PaymentUsecase) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if err := u.enabled(); err != nil {
		return err
	}
	if !u.gateway.VerifyWebhookSignature(body, signature) {
		return NewHTTPError(http.StatusUnauthorized, "invalid webhook signature")
	}

	p, ok, err := payment.ParseWebhook(body)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid webhook payload")
	}
	if !ok {
		logger.Log.Debug("webhook event ignored", zap.String("event", p.Event))
		return nil
	}
	if !validID(p.OrderID) {
		return NewHTTPError(http.StatusBadRequest, "unknown order")
	}

	// the gateway signs the payload and notes.order_id was set by Checkout,
	// so any gateway order of this order is accepted here
	_, err = u.markPaid(ctx, "", p.OrderID, p.PaymentID, "", map[string]string{
		"razorpay_order_id":   p.GatewayOrderID,
		"razorpay_payment_id": p.PaymentID,
		"event":               p.Event,
		"source":              "webhook",
	}, &p.AmountPaise)
	return err
}

// markPaid runs the confirmation transaction. A second confirmation of the
// same gateway payment returns the order unchanged. A non-empty
// gatewayOrderID must match the one stored by Checkout.
func (u *PaymentUsecase) markPaid(ctx context.Context, actor, orderID, paymentID, gatewayOrderID string, data map[string]string, amountPaise *int64) (model.Order, error) {
	raw, _ := json.Marshal(data)

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if o.PaymentStatus == model.PaymentStatusPaid {
			if o.TransactionID != nil && *o.TransactionID == paymentID {
				out = o
				return nil
			}
			return NewHTTPError(http.StatusConflict, "order already paid")
		}
		if gatewayOrderID != "" && (o.GatewayOrderID == nil || *o.GatewayOrderID != gatewayOrderID) {
			return NewHTTPError(http.StatusBadRequest, "payment does not belong to this order")
		}
		if amountPaise != nil && *amountPaise != payment.AmountInPaise(o.TotalAmount) {
			return NewHTTPError(http.StatusBadRequest, "amount mismatch")
		}

		if err := r.Orders().MarkPaid(ctx, orderID, paymentID); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, "order already paid")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := u.clock.Now()
		if err := r.Payments().Create(ctx, &model.Payment{
			ID:            u.ids.NewID(),
			OrderID:       orderID,
			Amount:        o.TotalAmount,
			Currency:      model.CurrencyINR,
			PaymentMethod: model.PaymentMethodRazorpay,
			TransactionID: paymentID,
			Status:        model.PaymentRecordSuccess,
			PaymentData:   datatypes.JSON(raw),
			CreatedAt:     now,
		}); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, "payment already recorded")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before := snapshotJSON(o)
		o.PaymentStatus = model.PaymentStatusPaid
		o.OrderStatus = model.OrderStatusConfirmed
		o.TransactionID = &paymentID
		o.UpdatedAt = now

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor,
			Action:       model.AuditActionConfirmPayment,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   before,
			AfterJSON:    snapshotJSON(o),
			CreatedAt:    now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}
