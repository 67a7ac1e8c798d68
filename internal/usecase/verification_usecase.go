package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mayankmishra0403/printhub/internal/infra/mail"
	"github.com/mayankmishra0403/printhub/internal/logger"
	"github.com/mayankmishra0403/printhub/internal/verification"

	"go.uber.org/zap"
)

type VerificationUsecase struct {
	issuer *verification.Issuer
	mailer mail.Mailer
}

func NewVerificationUsecase(issuer *verification.Issuer, mailer mail.Mailer) *VerificationUsecase {
	return &VerificationUsecase{issuer: issuer, mailer: mailer}
}

type SendCodeOutput struct {
	Success   bool      `json:"success"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int       `json:"expires_in"`
}

type VerifyCodeOutput struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	// Status is the HTTP status the outcome maps to.
	Status int `json:"-"`
}

// SendCode issues a code and emails it. The code itself is never returned.
func (u *VerificationUsecase) SendCode(ctx context.Context, email, format string) (SendCodeOutput, error) {
	f, err := verification.ParseFormat(format)
	if err != nil {
		return SendCodeOutput{}, NewHTTPError(http.StatusBadRequest, "invalid format")
	}

	issued, err := u.issuer.Issue(ctx, email, f)
	if errors.Is(err, verification.ErrValidation) {
		return SendCodeOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if err != nil {
		logger.Log.Error("issue verification code failed", zap.Error(err))
		return SendCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	msg, err := mail.VerificationMessage(issued.Email, issued.Code, u.issuer.TTL())
	if err == nil {
		err = u.mailer.Send(ctx, msg)
	}
	if err != nil {
		logger.Log.Error("send verification email failed", zap.String("email", issued.Email), zap.Error(err))
		return SendCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to send verification email")
	}

	return SendCodeOutput{
		Success:   true,
		ExpiresAt: issued.ExpiresAt,
		ExpiresIn: int(u.issuer.TTL().Seconds()),
	}, nil
}

func (u *VerificationUsecase) VerifyCode(ctx context.Context, email, code string) (VerifyCodeOutput, error) {
	err := u.issuer.Verify(ctx, email, code)
	switch {
	case err == nil:
		return VerifyCodeOutput{OK: true, Status: http.StatusOK}, nil
	case errors.Is(err, verification.ErrValidation):
		return VerifyCodeOutput{}, NewHTTPError(http.StatusBadRequest, "email and code are required")
	case errors.Is(err, verification.ErrCodeNotFound):
		return VerifyCodeOutput{Reason: verification.Reason(err), Status: http.StatusNotFound}, nil
	case errors.Is(err, verification.ErrCodeExpired), errors.Is(err, verification.ErrCodeMismatch):
		return VerifyCodeOutput{Reason: verification.Reason(err), Status: http.StatusBadRequest}, nil
	default:
		logger.Log.Error("verify code failed", zap.Error(err))
		return VerifyCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
