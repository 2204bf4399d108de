// Package cryptox implements the cryptographic primitives of the vault:
// memory-hard password hashing (scrypt), identity digests, constant-time
// comparison, and AES-GCM authenticated encryption of secrets under the
// master key. All hex/byte conversions live here so callers only ever see
// encoded strings next to raw ciphertext bytes.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/avetrovs/swipevault/internal/common"
	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters. N=2^14, r=8, p=1 keeps interactive logins under a
// second on phone-class hardware while staying expensive for offline
// dictionary attacks. Changing them invalidates every stored password hash.
const (
	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1
)

const (
	// KeyLength is the AES-256 key size, also used for derived password hashes.
	KeyLength = 32
	// SaltLength is the per-user random salt size.
	SaltLength = 16
	// NonceLength is the GCM nonce size. A fresh nonce is drawn on every
	// Encrypt call; under a long-lived key that freshness is the only defense
	// against nonce reuse.
	NonceLength = 12
)

// DeriveKey runs scrypt over password and salt with the fixed cost
// parameters. Deterministic for identical inputs.
func DeriveKey(password, salt []byte) ([]byte, error) {
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, KeyLength)
	if err != nil {
		return nil, fmt.Errorf("scrypt derivation failed: %w", err)
	}
	return key, nil
}

// HashPassword derives a password hash and returns it with its salt, both
// hex-encoded. With an empty saltHex a fresh random salt is generated
// (registration); with a stored saltHex the same hash is reproduced for
// comparison (login).
func HashPassword(password string, saltHex string) (hashHex, outSaltHex string, err error) {
	var salt []byte
	if saltHex == "" {
		salt = common.GenerateRandByteArray(SaltLength)
		saltHex = hex.EncodeToString(salt)
	} else {
		salt, err = hex.DecodeString(saltHex)
		if err != nil {
			return "", "", fmt.Errorf("invalid salt: %w", err)
		}
	}

	key, err := DeriveKey([]byte(password), salt)
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(key), saltHex, nil
}

// ConstantTimeEqual compares two hex strings in time independent of where
// they first differ. A length mismatch short-circuits: lengths here are
// fixed digest sizes, not secrets. Every credential comparison in the vault
// must go through this function.
func ConstantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// DigestHex returns the hex-encoded SHA-256 of value's UTF-8 bytes. Used for
// identity hashes so the store never holds a reversible identity string.
func DigestHex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Encrypt seals plaintext with AES-GCM under the hex-encoded key, drawing a
// fresh random nonce. The returned ciphertext carries the authentication tag;
// the nonce is returned hex-encoded for storage alongside it.
func Encrypt(plaintext []byte, keyHex string) (ciphertext []byte, nonceHex string, err error) {
	aesgcm, err := newGCM(keyHex)
	if err != nil {
		return nil, "", err
	}

	nonce := common.GenerateRandByteArray(NonceLength)
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)
	return ciphertext, hex.EncodeToString(nonce), nil
}

// Decrypt opens an AES-GCM ciphertext produced by Encrypt. Authentication
// failure surfaces as common.ErrTamperDetected so callers can distinguish
// tampering or corruption from an ordinary miss.
func Decrypt(ciphertext []byte, keyHex, nonceHex string) ([]byte, error) {
	aesgcm, err := newGCM(keyHex)
	if err != nil {
		return nil, err
	}

	nonce, err := hex.DecodeString(nonceHex)
	if err != nil || len(nonce) != NonceLength {
		return nil, fmt.Errorf("%w: malformed nonce", common.ErrTamperDetected)
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTamperDetected, err)
	}
	return plaintext, nil
}

func newGCM(keyHex string) (cipher.AEAD, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	if len(key) != KeyLength {
		return nil, fmt.Errorf("invalid key: expected %d bytes, got %d", KeyLength, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
