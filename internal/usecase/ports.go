package usecase

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator makes primary keys (UUIDs in production).
type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// validID rejects ids that would make Postgres fail the uuid cast.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
