package lifecycle

import (
	"errors"
	"strings"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
)

var (
	ErrUnknownStatus    = errors.New("unknown order status")
	ErrTransitionDenied = errors.New("order status transition not allowed")
)

// Policy decides whether an admin may move an order between two statuses.
type Policy interface {
	Allow(from, to model.OrderStatus) bool
}

// Permissive accepts any move between known statuses.
type Permissive struct{}

func (Permissive) Allow(from, to model.OrderStatus) bool {
	return from.Valid() && to.Valid()
}

// Table allows a move only when from is listed as a predecessor of to.
type Table map[model.OrderStatus][]model.OrderStatus

// StrictTable is the forward-only lifecycle with cancellation from any
// non-terminal state.
var StrictTable = Table{
	model.OrderStatusPending:   {},
	model.OrderStatusConfirmed: {model.OrderStatusPending},
	model.OrderStatusPrinting:  {model.OrderStatusConfirmed},
	model.OrderStatusReady:     {model.OrderStatusPrinting},
	model.OrderStatusDelivered: {model.OrderStatusReady},
	model.OrderStatusCancelled: {
		model.OrderStatusPending,
		model.OrderStatusConfirmed,
		model.OrderStatusPrinting,
		model.OrderStatusReady,
	},
}

func (t Table) Allow(from, to model.OrderStatus) bool {
	for _, p := range t[to] {
		if p == from {
			return true
		}
	}
	return false
}

// New returns StrictTable when strict is set, Permissive otherwise.
func New(strict bool) Policy {
	if strict {
		return StrictTable
	}
	return Permissive{}
}

// ParseStatus validates enum membership. Input is trimmed and lower-cased.
func ParseStatus(s string) (model.OrderStatus, error) {
	st := model.OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", ErrUnknownStatus
	}
	return st, nil
}

// Transition checks a requested move. Re-setting the current status is
// reported as changed=false with no error.
func Transition(p Policy, current model.OrderStatus, requested string) (next model.OrderStatus, changed bool, err error) {
	next, err = ParseStatus(requested)
	if err != nil {
		return "", false, err
	}
	if next == current {
		return next, false, nil
	}
	if !p.Allow(current, next) {
		return "", false, ErrTransitionDenied
	}
	return next, true, nil
}
