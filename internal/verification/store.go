package verification

import (
	"context"
	"errors"
	"time"
)

var ErrNoRecord = errors.New("verification record not found")

// ExpiredRetention is how long a store keeps a record past its expiry, so a
// late verify reports Expired instead of NotFound.
const ExpiredRetention = 15 * time.Minute

// Record is what a CodeStore keeps per email. The code itself is never stored.
type Record struct {
	CodeHash  string    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CodeStore is the keyed storage behind an Issuer.
type CodeStore interface {
	// Put stores rec under key, replacing any previous record.
	Put(ctx context.Context, key string, rec Record) error
	// Get returns ErrNoRecord when nothing is stored for key.
	Get(ctx context.Context, key string) (Record, error)
	// CompareAndDelete removes key only if it still holds rec.
	CompareAndDelete(ctx context.Context, key string, rec Record) (bool, error)
}
