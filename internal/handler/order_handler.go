package handler

import (
	"errors"
	"net/http"

	"github.com/mayankmishra0403/printhub/internal/config"
	"github.com/mayankmishra0403/printhub/internal/middleware"
	"github.com/mayankmishra0403/printhub/internal/repository"
	"github.com/mayankmishra0403/printhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// OrderCreateRequest is sent as multipart/form-data when a file is attached
// and may be JSON otherwise.
type OrderCreateRequest struct {
	FullName        string   `form:"full_name" json:"full_name"`
	Email           string   `form:"email" json:"email"`
	Phone           string   `form:"phone" json:"phone"`
	ServiceType     string   `form:"service_type" json:"service_type"`
	NumberOfPages   flexInt  `form:"number_of_pages" json:"number_of_pages"`
	PaperType       string   `form:"paper_type" json:"paper_type"`
	IsEmergency     flexBool `form:"is_emergency" json:"is_emergency"`
	DeliveryAddress string   `form:"delivery_address" json:"delivery_address"`
	Notes           string   `form:"notes" json:"notes"`
}

// GuestOrderRequest is the landing page quick form.
type GuestOrderRequest struct {
	Name        string  `form:"name" json:"name"`
	Email       string  `form:"email" json:"email"`
	Phone       string  `form:"phone" json:"phone"`
	Service     string  `form:"service" json:"service"`
	Quantity    flexInt `form:"quantity" json:"quantity"`
	Urgency     string  `form:"urgency" json:"urgency"`
	Description string  `form:"description" json:"description"`
	Address     string  `form:"delivery_address" json:"delivery_address"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.POST("/orders/guest", h.guest)

	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.FreshRoleGuard(userRepo))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *OrderHandler) guest(c echo.Context) error {
	var req GuestOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PlaceGuestOrder(c.Request().Context(), usecase.GuestOrderInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Service:         req.Service,
		Quantity:        req.Quantity.Value,
		Urgency:         req.Urgency,
		Description:     req.Description,
		DeliveryAddress: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.PlaceOrderInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		ServiceType:     req.ServiceType,
		NumberOfPages:   req.NumberOfPages.Value,
		PaperType:       req.PaperType,
		IsEmergency:     bool(req.IsEmergency),
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}

	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file"})
		}
		defer f.Close()
		in.File = &usecase.FileUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
