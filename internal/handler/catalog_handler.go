package handler

import (
	"net/http"

	"github.com/mayankmishra0403/printhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the public price list and quotes.
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

type QuoteRequest struct {
	ServiceType   string   `json:"service_type"`
	NumberOfPages flexInt  `json:"number_of_pages"`
	PaperType     string   `json:"paper_type"`
	IsEmergency   flexBool `json:"is_emergency"`
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/services", h.services)
	e.POST("/pricing/quote", h.quote)
}

func (h *CatalogHandler) services(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Catalog())
}

func (h *CatalogHandler) quote(c echo.Context) error {
	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.ServiceType == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "service_type is required"})
	}

	out := h.uc.Quote(usecase.QuoteInput{
		ServiceType:   req.ServiceType,
		NumberOfPages: req.NumberOfPages.Value,
		PaperType:     req.PaperType,
		IsEmergency:   bool(req.IsEmergency),
	})
	return c.JSON(http.StatusOK, out)
}
