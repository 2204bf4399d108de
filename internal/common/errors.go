// Package common defines sentinel errors and small helpers shared across
// swipevault layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateIdentity = errors.New("identity already exists")

	// ErrStorage marks I/O or constraint faults from the local store that are
	// not one of the expected outcomes above.
	ErrStorage = errors.New("storage failure")

	// ErrTamperDetected is returned when authenticated decryption fails.
	// It indicates corruption or an integrity attack, never a normal miss,
	// and must not be collapsed into ErrNotFound.
	ErrTamperDetected = errors.New("ciphertext authentication failed")

	// ErrKeychainUnavailable is returned when the OS secure container denies
	// access or has no usable backend. There is no fallback store.
	ErrKeychainUnavailable = errors.New("secure keychain unavailable")
)
