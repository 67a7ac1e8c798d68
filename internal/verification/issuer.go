package verification

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const DefaultTTL = 10 * time.Minute

var (
	ErrValidation   = errors.New("validation error")
	ErrCodeNotFound = errors.New("verification code not found")
	ErrCodeExpired  = errors.New("verification code expired")
	ErrCodeMismatch = errors.New("verification code mismatch")
)

type Clock interface {
	Now() time.Time
}

// Issued is returned to the caller so the code can be delivered.
type Issued struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// Issuer creates and checks one-time email codes. At most one live code
// exists per normalised email; issuing again replaces it.
type Issuer struct {
	store  CodeStore
	hasher CodeHasher
	clock  Clock
	ttl    time.Duration
	gen    func(Format) (string, error)
}

func NewIssuer(store CodeStore, hasher CodeHasher, clock Clock, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		store:  store,
		hasher: hasher,
		clock:  clock,
		ttl:    ttl,
		gen:    GenerateCode,
	}
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

// NormalizeEmail trims and lower-cases an address and rejects malformed ones.
func NormalizeEmail(email string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return e, nil
}

func (i *Issuer) Issue(ctx context.Context, email string, format Format) (Issued, error) {
	key, err := NormalizeEmail(email)
	if err != nil {
		return Issued{}, err
	}

	code, err := i.gen(format)
	if err != nil {
		return Issued{}, fmt.Errorf("generate code: %w", err)
	}
	hash, err := i.hasher.Hash(code)
	if err != nil {
		return Issued{}, fmt.Errorf("hash code: %w", err)
	}

	expiresAt := i.clock.Now().Add(i.ttl)
	if err := i.store.Put(ctx, key, Record{CodeHash: hash, ExpiresAt: expiresAt}); err != nil {
		return Issued{}, fmt.Errorf("store code: %w", err)
	}
	return Issued{Email: key, Code: code, ExpiresAt: expiresAt}, nil
}

// Verify consumes the stored code for email when code matches. A mismatch
// leaves the entry in place; an expired entry is removed.
func (i *Issuer) Verify(ctx context.Context, email, code string) error {
	key, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fmt.Errorf("%w: code is required", ErrValidation)
	}

	rec, err := i.store.Get(ctx, key)
	if errors.Is(err, ErrNoRecord) {
		return ErrCodeNotFound
	}
	if err != nil {
		return fmt.Errorf("load code: %w", err)
	}

	if i.clock.Now().After(rec.ExpiresAt) {
		if _, err := i.store.CompareAndDelete(ctx, key, rec); err != nil {
			return fmt.Errorf("delete expired code: %w", err)
		}
		return ErrCodeExpired
	}

	if !i.hasher.Verify(code, rec.CodeHash) {
		return ErrCodeMismatch
	}

	ok, err := i.store.CompareAndDelete(ctx, key, rec)
	if err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	if !ok {
		// consumed or replaced by a concurrent request
		return ErrCodeNotFound
	}
	return nil
}

// Reason is the short machine-readable form of a Verify failure.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCodeNotFound):
		return "not_found"
	case errors.Is(err, ErrCodeExpired):
		return "expired"
	case errors.Is(err, ErrCodeMismatch):
		return "mismatch"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
