package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avetrovs/swipevault/internal/common"
	"github.com/avetrovs/swipevault/internal/dbx"
	"github.com/avetrovs/swipevault/internal/vault/models"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert writes the secret keyed on service_name. SQLite resolves the
// conflict atomically, so concurrent writers cannot leave two rows; the last
// completed write wins.
func (r *SQLiteRepository) Upsert(ctx context.Context, secret *models.Secret) error {
	query := `INSERT INTO secrets (service_name, ciphertext, nonce, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(service_name) DO UPDATE SET ciphertext = excluded.ciphertext,
				nonce = excluded.nonce,
				created_at = excluded.created_at`
	_, err := r.db.ExecContext(ctx, query,
		secret.ServiceName, secret.Ciphertext, secret.Nonce, secret.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert secret: %v", common.ErrStorage, err)
	}
	return nil
}

// GetByServiceName returns a single secret or common.ErrNotFound.
func (r *SQLiteRepository) GetByServiceName(ctx context.Context, serviceName string) (*models.Secret, error) {
	query := `SELECT service_name, ciphertext, nonce, created_at
			FROM secrets WHERE service_name = ?`
	row := r.db.QueryRowContext(ctx, query, serviceName)

	s := &models.Secret{}
	err := row.Scan(&s.ServiceName, &s.Ciphertext, &s.Nonce, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query secret: %v", common.ErrStorage, err)
	}
	return s, nil
}
