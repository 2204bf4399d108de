// Package models defines the records persisted by the vault's local store.
package models

// User is a locally registered account. The store never holds the plaintext
// identity: IdentityHash is a one-way digest of the normalized identifier,
// and the password is kept only as a salted scrypt hash.
type User struct {
	// ID is assigned by the store on insert, monotonic, never reused.
	ID int64

	// IdentityHash is the hex SHA-256 of the trimmed, lower-cased identity.
	// Unique across users.
	IdentityHash string

	// PasswordHash is the hex scrypt hash of the password under PasswordSalt.
	PasswordHash string

	// PasswordSalt is a hex random salt, unique per user, immutable after
	// registration.
	PasswordSalt string

	// CreatedAt is the creation time in epoch milliseconds.
	CreatedAt int64
}
