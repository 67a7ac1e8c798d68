package handler

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
	"github.com/mayankmishra0403/printhub/internal/infra/mail"
	repo "github.com/mayankmishra0403/printhub/internal/repository"
)

type memOrders struct {
	mu   sync.Mutex
	byID map[string]model.Order
}

func newMemOrders() *memOrders {
	return &memOrders{byID: map[string]model.Order{}}
}

func (m *memOrders) Create(_ context.Context, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[o.ID] = *o
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id string) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) FindByIDForUpdate(ctx context.Context, id string) (model.Order, error) {
	return m.FindByID(ctx, id)
}

func (m *memOrders) ListByUserID(_ context.Context, userID string, page, limit int) ([]model.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for _, o := range m.byID {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, status model.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	o.OrderStatus = status
	m.byID[id] = o
	return nil
}

func (m *memOrders) SetGatewayOrderID(_ context.Context, id, gatewayOrderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	if o.PaymentStatus == model.PaymentStatusPaid {
		return repo.ErrConflict
	}
	o.GatewayOrderID = &gatewayOrderID
	m.byID[id] = o
	return nil
}

func (m *memOrders) MarkPaid(_ context.Context, id, txID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	if o.PaymentStatus == model.PaymentStatusPaid {
		return repo.ErrConflict
	}
	o.PaymentStatus = model.PaymentStatusPaid
	o.OrderStatus = model.OrderStatusConfirmed
	o.TransactionID = &txID
	m.byID[id] = o
	return nil
}

func (m *memOrders) ListAdmin(_ context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for _, o := range m.byID {
		if f.Status == "" || o.OrderStatus == f.Status {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memOrders) Stats(_ context.Context) (repo.OrderStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s repo.OrderStats
	for _, o := range m.byID {
		s.Total++
		switch o.OrderStatus {
		case model.OrderStatusPending:
			s.Pending++
		case model.OrderStatusConfirmed, model.OrderStatusPrinting:
			s.InProgress++
		case model.OrderStatusDelivered:
			s.Delivered++
		}
	}
	return s, nil
}

type memPayments struct {
	mu   sync.Mutex
	rows []model.Payment
}

func (m *memPayments) Create(_ context.Context, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *p)
	return nil
}

func (m *memPayments) ListByOrderID(_ context.Context, orderID string) ([]model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Payment
	for _, p := range m.rows {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memAudits struct {
	mu   sync.Mutex
	rows []model.AuditLog
}

func (m *memAudits) Create(_ context.Context, l model.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, l)
	return nil
}

func (m *memAudits) ListForResource(_ context.Context, rt model.AuditResourceType, id string) ([]model.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AuditLog
	for _, l := range m.rows {
		if l.ResourceType == rt && l.ResourceID == id {
			out = append(out, l)
		}
	}
	return out, nil
}

type memNotes struct {
	mu   sync.Mutex
	rows []model.AdminNote
}

func (m *memNotes) Create(_ context.Context, n *model.AdminNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *n)
	return nil
}

func (m *memNotes) ListByOrderID(_ context.Context, orderID string) ([]model.AdminNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AdminNote
	for _, n := range m.rows {
		if n.OrderID == orderID {
			out = append(out, n)
		}
	}
	return out, nil
}

type memUsers struct {
	byID map[string]model.User
}

func (m memUsers) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (m memUsers) FindBySubject(_ context.Context, sub string) (model.User, error) {
	for _, u := range m.byID {
		if u.Subject == sub {
			return u, nil
		}
	}
	return model.User{}, repo.ErrNotFound
}

func (m memUsers) Upsert(_ context.Context, u model.User) (model.User, error) {
	m.byID[u.ID] = u
	return u, nil
}

type memTx struct {
	orders   *memOrders
	payments *memPayments
	audits   *memAudits
}

func (t *memTx) WithinTx(_ context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t)
}

func (t *memTx) Orders() repo.OrderRepository       { return t.orders }
func (t *memTx) Payments() repo.PaymentRepository   { return t.payments }
func (t *memTx) AuditLogs() repo.AuditLogRepository { return t.audits }

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}
	}
	return m.sent[len(m.sent)-1]
}

type memFiles struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func (m *memFiles) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = b
	return "https://files.example/" + key, nil
}

type uuidIDs struct{}

func (uuidIDs) NewID() string { return uuid.NewString() }

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }
