package usecase_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
	"github.com/mayankmishra0403/printhub/internal/infra/identity"
	"github.com/mayankmishra0403/printhub/internal/infra/mail"
	"github.com/mayankmishra0403/printhub/internal/infra/payment"
	repo "github.com/mayankmishra0403/printhub/internal/repository"
)

// =====================
// TxManager / TxRepos
// =====================

type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders    repo.OrderRepository
	payments  repo.PaymentRepository
	auditLogs repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository       { return r.orders }
func (r *TxReposMock) Payments() repo.PaymentRepository   { return r.payments }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

// =====================
// Repositories
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) SetGatewayOrderID(ctx context.Context, orderID string, gatewayOrderID string) error {
	args := m.Called(ctx, orderID, gatewayOrderID)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkPaid(ctx context.Context, orderID string, transactionID string) error {
	args := m.Called(ctx, orderID, transactionID)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Stats(ctx context.Context) (repo.OrderStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(repo.OrderStats)
	return s, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p *model.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PaymentRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.Payment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).([]model.Payment)
	return p, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) ListForResource(ctx context.Context, resourceType model.AuditResourceType, resourceID string) ([]model.AuditLog, error) {
	args := m.Called(ctx, resourceType, resourceID)
	l, _ := args.Get(0).([]model.AuditLog)
	return l, args.Error(1)
}

type AdminNoteRepoMock struct{ mock.Mock }

func (m *AdminNoteRepoMock) Create(ctx context.Context, note *model.AdminNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *AdminNoteRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.AdminNote, error) {
	args := m.Called(ctx, orderID)
	notes, _ := args.Get(0).([]model.AdminNote)
	return notes, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, userID string) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindBySubject(ctx context.Context, subject string) (model.User, error) {
	args := m.Called(ctx, subject)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Upsert(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

// =====================
// Ports
// =====================

type MailerMock struct{ mock.Mock }

func (m *MailerMock) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type FileStoreMock struct{ mock.Mock }

func (m *FileStoreMock) Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) KeyID() string { return "rzp_test_key" }

func (m *GatewayMock) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (payment.GatewayOrder, error) {
	args := m.Called(ctx, amountPaise, receipt)
	o, _ := args.Get(0).(payment.GatewayOrder)
	return o, args.Error(1)
}

func (m *GatewayMock) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	return m.Called(gatewayOrderID, paymentID, signature).Bool(0)
}

func (m *GatewayMock) VerifyWebhookSignature(body []byte, signature string) bool {
	return m.Called(body, signature).Bool(0)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) AuthCodeURL(state string) string {
	return "https://tenant.example/authorize?state=" + state
}

func (m *ProviderMock) Exchange(ctx context.Context, code string) (identity.Profile, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(identity.Profile)
	return p, args.Error(1)
}

type TokenIssuerMock struct{ mock.Mock }

func (m *TokenIssuerMock) Issue(userID string, role string, now time.Time) (string, time.Time, error) {
	args := m.Called(userID, role, now)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type seqIDs struct {
	ids []string
}

func (g *seqIDs) NewID() string {
	id := g.ids[0]
	g.ids = g.ids[1:]
	return id
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

const (
	orderID  = "0b9c2f8e-6c0e-4b8a-9d55-2d7a3f1a9e01"
	userID   = "5f1c7a9e-3b2d-4e6f-8a1b-9c0d2e3f4a5b"
	otherID  = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	adminID  = "c3d4e5f6-a7b8-4c9d-8e0f-1a2b3c4d5e6f"
	paymentN = "7e6d5c4b-3a29-4180-9f7e-6d5c4b3a2918"
)

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
