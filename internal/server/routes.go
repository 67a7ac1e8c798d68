package server

import (
	"net/http"

	"github.com/mayankmishra0403/printhub/internal/config"
	"github.com/mayankmishra0403/printhub/internal/handler"
	"github.com/mayankmishra0403/printhub/internal/repository"

	"github.com/labstack/echo/v4"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Catalog      *handler.CatalogHandler
	Verification *handler.VerificationHandler
	Auth         *handler.AuthHandler
	Orders       *handler.OrderHandler
	Payments     *handler.PaymentHandler
	AdminOrders  *handler.AdminOrderHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Catalog.RegisterRoutes(e)
	h.Verification.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.Orders.RegisterRoutes(e, cfg, userRepo)
	h.Payments.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrders.RegisterRoutes(e, cfg, userRepo)
}
