package users

import (
	"context"

	"github.com/avetrovs/swipevault/internal/vault/models"
)

// Repository describes persistence of registered users. Implementations are
// backed by the local SQLite database.
type Repository interface {
	// Insert stores a new user and returns the store-assigned id. A clash on
	// the identity hash returns common.ErrDuplicateIdentity.
	Insert(ctx context.Context, user *models.User) (int64, error)

	// GetByIdentityHash returns the user for the given identity digest, or
	// common.ErrNotFound when no such user exists. A miss is an expected
	// outcome, not an I/O failure.
	GetByIdentityHash(ctx context.Context, identityHash string) (*models.User, error)
}
