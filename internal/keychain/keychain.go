// Package keychain persists the vault master key in the OS-level secure
// container (macOS Keychain, Secret Service, Windows Credential Manager, or
// an encrypted file on headless hosts). Exactly one key lives there, under a
// fixed identifier; it never enters the relational store.
package keychain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/99designs/keyring"
	"github.com/avetrovs/swipevault/internal/common"
)

// Container holds one long-lived master key outside the relational store.
type Container interface {
	// GetOrCreate returns the value stored under identifier. When absent it
	// invokes generate, persists the result, and returns it.
	GetOrCreate(identifier string, generate func() (string, error)) (string, error)
}

// Config selects the backing keyring.
type Config struct {
	// ServiceName scopes entries in the OS keychain.
	ServiceName string

	// FileDir enables the encrypted-file backend on hosts without a native
	// keychain (CI, headless Linux). Empty restricts to native backends.
	FileDir string

	// FilePassword unlocks the file backend; ignored by native backends.
	FilePassword string
}

// Store implements Container over a 99designs keyring.
type Store struct {
	ring keyring.Keyring
	mu   sync.Mutex
}

// Open connects to the platform keychain. Items are written non-syncable and
// readable only while the device is unlocked; there is no fallback to a
// less-secure store, so an unusable backend is a hard error.
func Open(cfg Config) (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:                    cfg.ServiceName,
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		FileDir:                        cfg.FileDir,
		FilePasswordFunc:               keyring.FixedStringPrompt(cfg.FilePassword),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeychainUnavailable, err)
	}
	return NewStore(ring), nil
}

// NewStore wraps an already-open keyring. Useful for injecting a file-backed
// ring in tests.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// GetOrCreate reads the value under identifier, generating and persisting it
// on first use. First-time creation is serialized by the store's mutex, so
// concurrent in-process callers observe a single generated key; across
// processes the container's last write wins.
func (s *Store) GetOrCreate(identifier string, generate func() (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ring.Get(identifier)
	if err == nil {
		return string(item.Data), nil
	}
	if !errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: %v", common.ErrKeychainUnavailable, err)
	}

	value, err := generate()
	if err != nil {
		return "", fmt.Errorf("key generation failed: %w", err)
	}

	err = s.ring.Set(keyring.Item{
		Key:                       identifier,
		Data:                      []byte(value),
		Label:                     "swipevault master key",
		KeychainNotSynchronizable: true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrKeychainUnavailable, err)
	}
	return value, nil
}
