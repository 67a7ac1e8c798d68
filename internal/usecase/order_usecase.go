package usecase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
	"github.com/mayankmishra0403/printhub/internal/domain/pricing"
	"github.com/mayankmishra0403/printhub/internal/infra/mail"
	"github.com/mayankmishra0403/printhub/internal/infra/storage"
	"github.com/mayankmishra0403/printhub/internal/logger"
	repo "github.com/mayankmishra0403/printhub/internal/repository"

	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type OrderUsecase struct {
	orders  repo.OrderRepository
	catalog *pricing.Catalog
	files   storage.FileStore
	mailer  mail.Mailer
	ids     IDGenerator
	clock   Clock
}

func NewOrderUsecase(
	orders repo.OrderRepository,
	catalog *pricing.Catalog,
	files storage.FileStore,
	mailer mail.Mailer,
	ids IDGenerator,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{
		orders:  orders,
		catalog: catalog,
		files:   files,
		mailer:  mailer,
		ids:     ids,
		clock:   clock,
	}
}

type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type PlaceOrderInput struct {
	FullName        string
	Email           string
	Phone           string
	ServiceType     string
	NumberOfPages   *int
	PaperType       string
	IsEmergency     bool
	DeliveryAddress string
	Notes           string
	File            *FileUpload
}

// GuestOrderInput is the quick order form on the landing page.
type GuestOrderInput struct {
	Name            string
	Email           string
	Phone           string
	Service         string
	Quantity        *int
	Urgency         string
	Description     string
	DeliveryAddress string
}

type OrderListOutput struct {
	Orders []model.Order `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (model.Order, error) {
	if userID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return u.place(ctx, &userID, in)
}

func (u *OrderUsecase) PlaceGuestOrder(ctx context.Context, in GuestOrderInput) (model.Order, error) {
	return u.place(ctx, nil, PlaceOrderInput{
		FullName:        in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		ServiceType:     in.Service,
		NumberOfPages:   in.Quantity,
		IsEmergency:     strings.EqualFold(strings.TrimSpace(in.Urgency), "urgent"),
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Description,
	})
}

func validateOrderInput(in *PlaceOrderInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	in.PaperType = strings.TrimSpace(in.PaperType)
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.FullName == "" || in.Email == "" || in.Phone == "" || in.ServiceType == "" {
		return NewHTTPError(http.StatusBadRequest, "name, email, phone and service_type are required")
	}
	if !emailPattern.MatchString(in.Email) {
		return NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if in.NumberOfPages != nil && *in.NumberOfPages < 1 {
		in.NumberOfPages = nil
	}
	if in.PaperType == "" {
		in.PaperType = pricing.DefaultPaperType
	}
	if in.DeliveryAddress == "" {
		in.DeliveryAddress = model.DefaultDeliveryAddress
	}
	if in.File != nil {
		if err := storage.CheckUpload(in.File.ContentType, in.File.Size); err != nil {
			return NewHTTPError(http.StatusBadRequest, uploadMessage(err))
		}
	}
	return nil
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return storage.ErrFileTooLarge.Error()
	case errors.Is(err, storage.ErrFileType):
		return storage.ErrFileType.Error()
	default:
		return "invalid file"
	}
}

func (u *OrderUsecase) place(ctx context.Context, userID *string, in PlaceOrderInput) (model.Order, error) {
	if err := validateOrderInput(&in); err != nil {
		return model.Order{}, err
	}

	now := u.clock.Now()
	o := model.Order{
		ID:              u.ids.NewID(),
		UserID:          userID,
		FullName:        in.FullName,
		Email:           in.Email,
		Phone:           in.Phone,
		ServiceType:     in.ServiceType,
		NumberOfPages:   in.NumberOfPages,
		PaperType:       in.PaperType,
		IsEmergency:     in.IsEmergency,
		DeliveryAddress: in.DeliveryAddress,
		PaymentStatus:   model.PaymentStatusPending,
		OrderStatus:     model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Notes != "" {
		o.Notes = &in.Notes
	}

	// priced once here; nothing recomputes it later
	o.TotalAmount = u.catalog.Price(pricing.Quote{
		ServiceType: o.ServiceType,
		PageCount:   o.NumberOfPages,
		PaperTypeID: o.PaperType,
		IsEmergency: o.IsEmergency,
	})

	if in.File != nil {
		u.attachFile(ctx, &o, in.File)
	}

	if err := u.orders.Create(ctx, &o); err != nil {
		logger.Log.Error("create order failed", zap.Error(err))
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.sendConfirmation(ctx, o)
	return o, nil
}

// attachFile uploads the file; a failure leaves the order without a file.
func (u *OrderUsecase) attachFile(ctx context.Context, o *model.Order, f *FileUpload) {
	key := storage.ObjectKey(o.ID, f.Name, o.CreatedAt)
	url, err := u.files.Put(ctx, key, f.ContentType, f.Body, f.Size)
	if err != nil {
		logger.Log.Warn("file upload failed, creating order without file",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
		return
	}
	name := f.Name
	size := f.Size
	o.FileURL = &url
	o.FileName = &name
	o.FileSize = &size
}

func (u *OrderUsecase) sendConfirmation(ctx context.Context, o model.Order) {
	msg, err := mail.OrderConfirmationMessage(o)
	if err == nil {
		err = u.mailer.Send(ctx, msg)
	}
	if err != nil {
		logger.Log.Warn("order confirmation email failed", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID string, page, limit int) (OrderListOutput, error) {
	if userID == "" {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OrderListOutput{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

// GetMyOrderDetail hides orders of other users behind 404.
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID string, orderID string) (model.Order, error) {
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
