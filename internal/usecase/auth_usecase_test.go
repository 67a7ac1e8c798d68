package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
	"github.com/mayankmishra0403/printhub/internal/infra/identity"
	repo "github.com/mayankmishra0403/printhub/internal/repository"
	"github.com/mayankmishra0403/printhub/internal/usecase"
)

func TestLoginURL(t *testing.T) {
	uc := usecase.NewAuthUsecase(new(ProviderMock), new(UserRepoMock), new(TokenIssuerMock), &seqIDs{}, fixedClock{testNow})
	u, err := uc.LoginURL("xyz")
	require.NoError(t, err)
	assert.Equal(t, "https://tenant.example/authorize?state=xyz", u)

	disabled := usecase.NewAuthUsecase(nil, new(UserRepoMock), new(TokenIssuerMock), &seqIDs{}, fixedClock{testNow})
	_, err = disabled.LoginURL("xyz")
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, he.Status)
}

func TestCallback_UpsertsAndIssuesToken(t *testing.T) {
	provider := new(ProviderMock)
	users := new(UserRepoMock)
	tokens := new(TokenIssuerMock)
	uc := usecase.NewAuthUsecase(provider, users, tokens, &seqIDs{ids: []string{userID}}, fixedClock{testNow})

	provider.On("Exchange", mock.Anything, "auth-code").
		Return(identity.Profile{Subject: "auth0|abc", Email: "asha@example.com", Name: "Asha"}, nil).Once()
	stored := model.User{ID: userID, Subject: "auth0|abc", Email: "asha@example.com", FullName: "Asha", Role: model.RoleAdmin}
	users.On("Upsert", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.ID == userID && u.Subject == "auth0|abc" && u.Role == model.RoleUser
	})).Return(stored, nil).Once()
	exp := testNow.Add(24 * time.Hour)
	tokens.On("Issue", userID, "admin", testNow).Return("signed.jwt", exp, nil).Once()

	out, err := uc.Callback(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt", out.Token)
	assert.Equal(t, exp, out.ExpiresAt)
	assert.Equal(t, model.RoleAdmin, out.User.Role)

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestCallback_Failures(t *testing.T) {
	provider := new(ProviderMock)
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(provider, users, new(TokenIssuerMock), &seqIDs{ids: []string{userID}}, fixedClock{testNow})

	_, err := uc.Callback(context.Background(), " ")
	assertErrContains(t, err, "missing code")

	provider.On("Exchange", mock.Anything, "bad").Return(identity.Profile{}, errors.New("invalid_grant")).Once()
	_, err = uc.Callback(context.Background(), "bad")
	assertErrContains(t, err, "unauthorized")

	users.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestMe(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(nil, users, new(TokenIssuerMock), &seqIDs{}, fixedClock{testNow})

	users.On("FindByID", mock.Anything, userID).
		Return(model.User{ID: userID, Email: "asha@example.com", Role: model.RoleAdmin}, nil).Once()
	out, err := uc.Me(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, out.IsAdmin)
	assert.Equal(t, "asha@example.com", out.User.Email)

	users.On("FindByID", mock.Anything, otherID).Return(model.User{}, repo.ErrNotFound).Once()
	_, err = uc.Me(context.Background(), otherID)
	assertErrContains(t, err, "unauthorized")
}
