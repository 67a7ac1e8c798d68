package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mayankmishra0403/printhub/internal/infra/mail"
	"github.com/mayankmishra0403/printhub/internal/usecase"
	"github.com/mayankmishra0403/printhub/internal/verification"
)

var sixDigits = regexp.MustCompile(`\b[0-9]{6}\b`)

func newVerificationUsecase(mailer *MailerMock) (*usecase.VerificationUsecase, *verification.MemoryStore) {
	store := verification.NewMemoryStore()
	iss := verification.NewIssuer(store, verification.NewBcryptCodeHasher(4), fixedClock{testNow}, verification.DefaultTTL)
	return usecase.NewVerificationUsecase(iss, mailer), store
}

func TestSendCode_MailsCodeAndHidesIt(t *testing.T) {
	mailer := new(MailerMock)
	uc, store := newVerificationUsecase(mailer)

	var sent mail.Message
	mailer.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(mail.Message)
	}).Return(nil).Once()

	out, err := uc.SendCode(context.Background(), "Asha@Example.com", "")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 600, out.ExpiresIn)
	assert.Equal(t, testNow.Add(10*time.Minute), out.ExpiresAt)
	assert.Equal(t, 1, store.Len())

	assert.Equal(t, "asha@example.com", sent.To)
	assert.Equal(t, mail.SubjectVerification, sent.Subject)
	code := sixDigits.FindString(sent.Text)
	require.NotEmpty(t, code)

	res, err := uc.VerifyCode(context.Background(), "asha@example.com", code)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, res.Status)

	res, err = uc.VerifyCode(context.Background(), "asha@example.com", code)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "not_found", res.Reason)
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestSendCode_MailFailure(t *testing.T) {
	mailer := new(MailerMock)
	uc, _ := newVerificationUsecase(mailer)
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("quota")).Once()

	_, err := uc.SendCode(context.Background(), "asha@example.com", "numeric")
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
}

func TestSendCode_Validation(t *testing.T) {
	mailer := new(MailerMock)
	uc, _ := newVerificationUsecase(mailer)

	_, err := uc.SendCode(context.Background(), "nope", "")
	assertErrContains(t, err, "invalid email")

	_, err = uc.SendCode(context.Background(), "asha@example.com", "emoji")
	assertErrContains(t, err, "invalid format")

	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestVerifyCode_Mismatch(t *testing.T) {
	mailer := new(MailerMock)
	uc, _ := newVerificationUsecase(mailer)
	mailer.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := uc.SendCode(context.Background(), "asha@example.com", "")
	require.NoError(t, err)

	// seven digits never match a six digit code
	res, err := uc.VerifyCode(context.Background(), "asha@example.com", "1234567")
	require.NoError(t, err)
	assert.Equal(t, "mismatch", res.Reason)
	assert.Equal(t, http.StatusBadRequest, res.Status)

	_, err = uc.VerifyCode(context.Background(), "asha@example.com", "")
	assertErrContains(t, err, "required")
}
