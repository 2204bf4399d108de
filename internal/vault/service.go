// Package vault implements the credential and secret service: user
// registration and authentication over scrypt password hashes, and envelope
// encryption of named service secrets under a master key held in the OS
// keychain. All state lives in injected handles; the package keeps no
// globals.
package vault

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avetrovs/swipevault/internal/common"
	"github.com/avetrovs/swipevault/internal/cryptox"
	"github.com/avetrovs/swipevault/internal/dbx"
	"github.com/avetrovs/swipevault/internal/keychain"
	"github.com/avetrovs/swipevault/internal/logging"
	"github.com/avetrovs/swipevault/internal/vault/models"
	"github.com/avetrovs/swipevault/internal/vault/repositories/secrets"
	"github.com/avetrovs/swipevault/internal/vault/repositories/users"
)

// MasterKeyID is the fixed secure-container identifier of the master key.
const MasterKeyID = "swipevault.master-key"

// Service orchestrates the store, the secure key container, and the crypto
// primitives. Authentication is stateless per call; session state belongs to
// the calling layer.
type Service struct {
	db   *sql.DB
	keys keychain.Container
	log  logging.Logger

	keyMu     sync.Mutex
	masterKey string // hex, cached for the process lifetime after first fetch
}

// NewService builds a Service from an initialized database handle, a key
// container, and a logger.
func NewService(db *sql.DB, keys keychain.Container, log logging.Logger) *Service {
	return &Service{db: db, keys: keys, log: log}
}

func (s *Service) usersRepo(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (s *Service) secretsRepo() secrets.Repository {
	return secrets.NewSQLiteRepository(s.db)
}

func normalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// Register creates a new local account and returns its id. The identity is
// normalized (trimmed, lower-cased) and stored only as a one-way digest; the
// password is hashed with a fresh per-user salt. An existing identity yields
// common.ErrDuplicateIdentity with no further detail.
func (s *Service) Register(ctx context.Context, identity, password string) (int64, error) {
	identityHash := cryptox.DigestHex(normalizeIdentity(identity))

	hashHex, saltHex, err := cryptox.HashPassword(password, "")
	if err != nil {
		return 0, fmt.Errorf("password hashing failed: %w", err)
	}

	// Lookup and insert run in one transaction; the UNIQUE constraint on
	// identity_hash still backstops a race between two registrations.
	var userID int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.usersRepo(tx)

		_, err := repo.GetByIdentityHash(ctx, identityHash)
		if err == nil {
			return common.ErrDuplicateIdentity
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		userID, err = repo.Insert(ctx, &models.User{
			IdentityHash: identityHash,
			PasswordHash: hashHex,
			PasswordSalt: saltHex,
			CreatedAt:    time.Now().UnixMilli(),
		})
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "user registered", "userID", userID)
	return userID, nil
}

// decoySaltHex feeds a throwaway derivation when the identity is unknown, so
// a miss costs roughly the same as a wrong password.
const decoySaltHex = "00112233445566778899aabbccddeeff"

// Authenticate verifies identity and password against the stored record. An
// unknown identity and a wrong password both return (false, nil); the caller
// cannot tell which occurred. Errors are I/O faults only.
func (s *Service) Authenticate(ctx context.Context, identity, password string) (bool, error) {
	identityHash := cryptox.DigestHex(normalizeIdentity(identity))

	user, err := s.usersRepo(s.db).GetByIdentityHash(ctx, identityHash)
	if errors.Is(err, common.ErrNotFound) {
		_, _, _ = cryptox.HashPassword(password, decoySaltHex)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	hashHex, _, err := cryptox.HashPassword(password, user.PasswordSalt)
	if err != nil {
		return false, err
	}

	return cryptox.ConstantTimeEqual(hashHex, user.PasswordHash), nil
}

// masterKeyHex returns the cached master key, fetching or lazily creating it
// in the secure container on first use.
func (s *Service) masterKeyHex(ctx context.Context) (string, error) {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()

	if s.masterKey != "" {
		return s.masterKey, nil
	}

	created := false
	key, err := s.keys.GetOrCreate(MasterKeyID, func() (string, error) {
		created = true
		return common.MakeRandHexString(cryptox.KeyLength)
	})
	if err != nil {
		return "", err
	}
	if created {
		s.log.Info(ctx, "master key generated")
	}

	s.masterKey = key
	return key, nil
}

// StoreSecret encrypts plaintext under the master key and upserts it for
// serviceName. Repeated writes replace the stored value; each write uses a
// fresh nonce.
func (s *Service) StoreSecret(ctx context.Context, serviceName, plaintext string) error {
	keyHex, err := s.masterKeyHex(ctx)
	if err != nil {
		return err
	}

	ciphertext, nonceHex, err := cryptox.Encrypt([]byte(plaintext), keyHex)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret: %w", err)
	}

	err = s.secretsRepo().Upsert(ctx, &models.Secret{
		ServiceName: serviceName,
		Ciphertext:  base64.StdEncoding.EncodeToString(ciphertext),
		Nonce:       nonceHex,
		CreatedAt:   time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "secret stored", "service", serviceName)
	return nil
}

// RetrieveSecret decrypts and returns the secret stored for serviceName.
// A missing secret returns common.ErrNotFound (an expected outcome); a
// failed authentication check returns common.ErrTamperDetected and is never
// reported as absence.
func (s *Service) RetrieveSecret(ctx context.Context, serviceName string) (string, error) {
	secret, err := s.secretsRepo().GetByServiceName(ctx, serviceName)
	if err != nil {
		return "", err
	}

	keyHex, err := s.masterKeyHex(ctx)
	if err != nil {
		return "", err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(secret.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: malformed ciphertext encoding", common.ErrTamperDetected)
	}

	plaintext, err := cryptox.Decrypt(ciphertext, keyHex, secret.Nonce)
	if err != nil {
		if errors.Is(err, common.ErrTamperDetected) {
			s.log.Error(ctx, "stored secret failed authentication check", "service", serviceName)
		}
		return "", err
	}

	return string(plaintext), nil
}
