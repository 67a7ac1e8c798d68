package repository

import (
	"context"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// ListForResource returns the history of one resource, oldest first.
	ListForResource(ctx context.Context, resourceType model.AuditResourceType, resourceID string) ([]model.AuditLog, error)
}
