package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avetrovs/swipevault/internal/common"
	"github.com/avetrovs/swipevault/internal/dbx"
	"github.com/avetrovs/swipevault/internal/vault/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert stores a new user row. The UNIQUE constraint on identity_hash is
// the integrity check of record: even when the service pre-checks for
// duplicates, a concurrent insert still surfaces ErrDuplicateIdentity here.
func (r *SQLiteRepository) Insert(ctx context.Context, user *models.User) (int64, error) {
	query := `INSERT INTO users (identity_hash, password_hash, password_salt, created_at)
			VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		user.IdentityHash, user.PasswordHash, user.PasswordSalt, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, common.ErrDuplicateIdentity
		}
		return 0, fmt.Errorf("%w: failed to insert user: %v", common.ErrStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get inserted user id: %v", common.ErrStorage, err)
	}
	return id, nil
}

// GetByIdentityHash returns a single user or common.ErrNotFound.
func (r *SQLiteRepository) GetByIdentityHash(ctx context.Context, identityHash string) (*models.User, error) {
	query := `SELECT id, identity_hash, password_hash, password_salt, created_at
			FROM users WHERE identity_hash = ?`
	row := r.db.QueryRowContext(ctx, query, identityHash)

	u := &models.User{}
	err := row.Scan(&u.ID, &u.IdentityHash, &u.PasswordHash, &u.PasswordSalt, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query user: %v", common.ErrStorage, err)
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
