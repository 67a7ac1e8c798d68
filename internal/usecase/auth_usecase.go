package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
	"github.com/mayankmishra0403/printhub/internal/infra/identity"
	"github.com/mayankmishra0403/printhub/internal/logger"
	repo "github.com/mayankmishra0403/printhub/internal/repository"

	"go.uber.org/zap"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID string, role string, now time.Time) (string, time.Time, error)
}

type AuthUsecase struct {
	provider identity.Provider
	users    repo.UserRepository
	tokens   TokenIssuer
	ids      IDGenerator
	clock    Clock
}

// NewAuthUsecase accepts a nil provider; login then answers 503.
func NewAuthUsecase(provider identity.Provider, users repo.UserRepository, tokens TokenIssuer, ids IDGenerator, clock Clock) *AuthUsecase {
	return &AuthUsecase{provider: provider, users: users, tokens: tokens, ids: ids, clock: clock}
}

type UserDTO struct {
	ID       string     `json:"id"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
	Phone    string     `json:"phone,omitempty"`
	Role     model.Role `json:"role"`
}

type MeOutput struct {
	User    UserDTO `json:"user"`
	IsAdmin bool    `json:"is_admin"`
}

type CallbackOutput struct {
	User      UserDTO
	Token     string
	ExpiresAt time.Time
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, FullName: u.FullName, Phone: u.Phone, Role: u.Role}
}

func (u *AuthUsecase) LoginURL(state string) (string, error) {
	if u.provider == nil {
		return "", NewHTTPError(http.StatusServiceUnavailable, "login is not configured")
	}
	return u.provider.AuthCodeURL(state), nil
}

// Callback exchanges the authorization code, upserts the user row and
// issues a session token. New users start with role user.
func (u *AuthUsecase) Callback(ctx context.Context, code string) (CallbackOutput, error) {
	if u.provider == nil {
		return CallbackOutput{}, NewHTTPError(http.StatusServiceUnavailable, "login is not configured")
	}
	if strings.TrimSpace(code) == "" {
		return CallbackOutput{}, NewHTTPError(http.StatusBadRequest, "missing code")
	}

	profile, err := u.provider.Exchange(ctx, code)
	if err != nil {
		logger.Log.Warn("identity exchange failed", zap.Error(err))
		return CallbackOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	now := u.clock.Now()
	user, err := u.users.Upsert(ctx, model.User{
		ID:        u.ids.NewID(),
		Subject:   profile.Subject,
		Email:     profile.Email,
		FullName:  profile.Name,
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		logger.Log.Error("upsert user failed", zap.Error(err))
		return CallbackOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	tok, exp, err := u.tokens.Issue(user.ID, string(user.Role), now)
	if err != nil {
		return CallbackOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}
	return CallbackOutput{User: toUserDTO(user), Token: tok, ExpiresAt: exp}, nil
}

// Me reads the user fresh so that role changes apply without a new login.
func (u *AuthUsecase) Me(ctx context.Context, userID string) (MeOutput, error) {
	if userID == "" {
		return MeOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return MeOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return MeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return MeOutput{User: toUserDTO(user), IsAdmin: user.IsAdmin()}, nil
}
