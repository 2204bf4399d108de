package models

// Secret is one encrypted service credential, e.g. the "tmdb" API key.
// There is at most one live row per ServiceName; writes are upserts.
type Secret struct {
	// ServiceName is the caller-chosen unique key of the secret.
	ServiceName string

	// Ciphertext is the base64-encoded AES-GCM output, tag included.
	Ciphertext string

	// Nonce is the hex-encoded 12-byte GCM nonce, fresh on every write.
	Nonce string

	// CreatedAt is the write time in epoch milliseconds, refreshed on upsert.
	CreatedAt int64
}
