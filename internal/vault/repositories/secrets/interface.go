package secrets

import (
	"context"

	"github.com/avetrovs/swipevault/internal/vault/models"
)

// Repository describes persistence of encrypted secrets. At most one row
// exists per service name; writes replace rather than accumulate.
type Repository interface {
	// Upsert inserts the secret or replaces the existing row for its
	// ServiceName, refreshing created_at.
	Upsert(ctx context.Context, secret *models.Secret) error

	// GetByServiceName returns the secret for the given name, or
	// common.ErrNotFound when none is stored.
	GetByServiceName(ctx context.Context, serviceName string) (*models.Secret, error)
}
