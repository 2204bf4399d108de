package vault

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/avetrovs/swipevault/internal/common"
	"github.com/avetrovs/swipevault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memContainer is an in-memory keychain.Container for tests.
type memContainer struct {
	mu            sync.Mutex
	items         map[string]string
	lookups       int
	generateCalls int
	fail          error
}

func newMemContainer() *memContainer {
	return &memContainer{items: make(map[string]string)}
}

func (c *memContainer) GetOrCreate(identifier string, generate func() (string, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fail != nil {
		return "", c.fail
	}

	c.lookups++
	if v, ok := c.items[identifier]; ok {
		return v, nil
	}

	c.generateCalls++
	v, err := generate()
	if err != nil {
		return "", err
	}
	c.items[identifier] = v
	return v, nil
}

func newTestService(t *testing.T) (*Service, *sql.DB, *memContainer) {
	t.Helper()

	db, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	keys := newMemContainer()
	log := logging.NewTextLogger(io.Discard, slog.LevelError)
	return NewService(db, keys, log), db, keys
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, "alice@example.com", "Secur3P@ss")
	require.NoError(t, err)
	assert.Positive(t, userID)

	ok, err := svc.Authenticate(ctx, "alice@example.com", "Secur3P@ss")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "x")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "x")
	assert.ErrorIs(t, err, common.ErrDuplicateIdentity)

	// first account unaffected
	ok, err := svc.Authenticate(ctx, "alice@example.com", "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_NormalizesIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "  Alice@Example.COM ", "Secur3P@ss")
	require.NoError(t, err)

	// different spelling of the same identity collides...
	_, err = svc.Register(ctx, "alice@example.com", "other")
	assert.ErrorIs(t, err, common.ErrDuplicateIdentity)

	// ...and authenticates
	ok, err := svc.Authenticate(ctx, "ALICE@example.com", "Secur3P@ss")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_UniqueSaltPerUser(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "same-password")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob@example.com", "same-password")
	require.NoError(t, err)

	rows, err := db.Query(`SELECT password_salt, password_hash FROM users ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var salts, hashes []string
	for rows.Next() {
		var salt, hash string
		require.NoError(t, rows.Scan(&salt, &hash))
		salts = append(salts, salt)
		hashes = append(hashes, hash)
	}
	require.NoError(t, rows.Err())
	require.Len(t, salts, 2)

	assert.NotEqual(t, salts[0], salts[1], "salts must be unique per registration")
	assert.NotEqual(t, hashes[0], hashes[1], "same password must not produce the same hash")
}

func TestRegister_StoresNoPlaintextIdentity(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "Secur3P@ss")
	require.NoError(t, err)

	var identityHash string
	require.NoError(t, db.QueryRow(`SELECT identity_hash FROM users`).Scan(&identityHash))
	assert.NotContains(t, identityHash, "alice")
	assert.Len(t, identityHash, 64) // hex sha-256
}

func TestAuthenticate_UnknownAndWrongLookAlike(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "real@example.com", "correct-password")
	require.NoError(t, err)

	okUnknown, errUnknown := svc.Authenticate(ctx, "nosuchuser@example.com", "anything")
	okWrong, errWrong := svc.Authenticate(ctx, "real@example.com", "wrongpassword")

	assert.False(t, okUnknown)
	assert.False(t, okWrong)
	assert.NoError(t, errUnknown)
	assert.NoError(t, errWrong)
}

func TestStoreAndRetrieveSecret(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreSecret(ctx, "tmdb", "abc123"))

	got, err := svc.RetrieveSecret(ctx, "tmdb")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
}

func TestRetrieveSecret_UnknownService(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.RetrieveSecret(context.Background(), "unknown-service")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NotErrorIs(t, err, common.ErrTamperDetected)
}

func TestStoreSecret_UpsertReplaces(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreSecret(ctx, "tmdb", "KEY1"))
	require.NoError(t, svc.StoreSecret(ctx, "tmdb", "KEY2"))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM secrets WHERE service_name='tmdb'`).Scan(&n))
	assert.Equal(t, 1, n, "exactly one row per service name")

	got, err := svc.RetrieveSecret(ctx, "tmdb")
	require.NoError(t, err)
	assert.Equal(t, "KEY2", got)
}

func TestStoreSecret_FreshNoncePerWrite(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	nonce := func() string {
		var n string
		require.NoError(t, db.QueryRow(`SELECT nonce FROM secrets WHERE service_name='tmdb'`).Scan(&n))
		return n
	}

	require.NoError(t, svc.StoreSecret(ctx, "tmdb", "same-value"))
	first := nonce()
	require.NoError(t, svc.StoreSecret(ctx, "tmdb", "same-value"))
	second := nonce()

	assert.NotEqual(t, first, second)
}

func TestRetrieveSecret_TamperedRow(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreSecret(ctx, "tmdb", "abc123"))

	// overwrite the stored ciphertext with valid base64 of different bytes
	_, err := db.Exec(`UPDATE secrets SET ciphertext='Z2FyYmFnZS1nYXJiYWdlLWdhcmJhZ2U=' WHERE service_name='tmdb'`)
	require.NoError(t, err)

	_, err = svc.RetrieveSecret(ctx, "tmdb")
	assert.ErrorIs(t, err, common.ErrTamperDetected)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}

func TestRetrieveSecret_CorruptEncoding(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreSecret(ctx, "tmdb", "abc123"))

	_, err := db.Exec(`UPDATE secrets SET ciphertext='%%%not-base64%%%' WHERE service_name='tmdb'`)
	require.NoError(t, err)

	_, err = svc.RetrieveSecret(ctx, "tmdb")
	assert.ErrorIs(t, err, common.ErrTamperDetected)
}

func TestMasterKey_CreatedOnceAndCached(t *testing.T) {
	svc, _, keys := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreSecret(ctx, "tmdb", "v1"))
	require.NoError(t, svc.StoreSecret(ctx, "omdb", "v2"))
	_, err := svc.RetrieveSecret(ctx, "tmdb")
	require.NoError(t, err)

	assert.Equal(t, 1, keys.generateCalls, "master key generated exactly once")
	assert.Equal(t, 1, keys.lookups, "container hit once, then cached in-process")

	key := keys.items[MasterKeyID]
	assert.Len(t, key, 64, "hex-encoded 32-byte key")
}

func TestMasterKey_SurvivesServiceRestart(t *testing.T) {
	ctx := context.Background()

	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	keys := newMemContainer()
	log := logging.NewTextLogger(io.Discard, slog.LevelError)

	svc1 := NewService(db, keys, log)
	require.NoError(t, svc1.StoreSecret(ctx, "tmdb", "abc123"))

	// new service instance, same container and store
	svc2 := NewService(db, keys, log)
	got, err := svc2.RetrieveSecret(ctx, "tmdb")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
	assert.Equal(t, 1, keys.generateCalls)
}

func TestSecretOps_KeychainUnavailable(t *testing.T) {
	svc, _, keys := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreSecret(ctx, "tmdb", "abc123"))

	keys.fail = common.ErrKeychainUnavailable
	svc2 := NewService(svc.db, keys, svc.log)

	err := svc2.StoreSecret(ctx, "other", "v")
	assert.ErrorIs(t, err, common.ErrKeychainUnavailable)

	_, err = svc2.RetrieveSecret(ctx, "tmdb")
	assert.ErrorIs(t, err, common.ErrKeychainUnavailable)
}

func TestInitDatabase_IdempotentAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "vault.db")

	db1, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)

	keys := newMemContainer()
	log := logging.NewTextLogger(io.Discard, slog.LevelError)
	svc1 := NewService(db1, keys, log)
	require.NoError(t, svc1.StoreSecret(ctx, "tmdb", "abc123"))
	require.NoError(t, db1.Close())

	db2, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db2.Close() })

	svc2 := NewService(db2, keys, log)
	got, err := svc2.RetrieveSecret(ctx, "tmdb")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
}

func TestAuthenticate_StorageFailureIsError(t *testing.T) {
	svc, db, _ := newTestService(t)
	require.NoError(t, db.Close())

	_, err := svc.Authenticate(context.Background(), "alice@example.com", "pw")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrStorage))
}
