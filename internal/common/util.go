package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateRandByteArray returns size cryptographically secure random bytes.
// A CSPRNG read failure is unrecoverable (there is no acceptable weaker
// source for key or nonce material), so it panics instead of returning an
// error the caller might be tempted to ignore.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("csprng read failed: %v", err))
	}
	return b
}

// MakeRandHexString generates size random bytes and encodes them as hex,
// so the resulting string is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of b with zeros. Useful for removing
// passwords and key material from memory after use. Nil-safe.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
