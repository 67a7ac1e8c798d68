package handler

import (
	"net/http"

	"github.com/mayankmishra0403/printhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

type VerificationHandler struct {
	uc *usecase.VerificationUsecase
}

func NewVerificationHandler(uc *usecase.VerificationUsecase) *VerificationHandler {
	return &VerificationHandler{uc: uc}
}

type SendCodeRequest struct {
	Email  string `json:"email"`
	Format string `json:"format"`
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *VerificationHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/email/verification")
	g.POST("/send", h.send)
	g.POST("/verify", h.verify)
}

func (h *VerificationHandler) send(c echo.Context) error {
	var req SendCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SendCode(c.Request().Context(), req.Email, req.Format)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VerificationHandler) verify(c echo.Context) error {
	var req VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.VerifyCode(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out.Status, out)
}
