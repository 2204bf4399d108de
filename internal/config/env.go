package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first when present; its values do
// not override variables already exported.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("DATABASE_PATH"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv("KEYCHAIN_SERVICE"); ok {
		cfg.KeychainService = v
	}
	if v, ok := os.LookupEnv("KEYCHAIN_FILE_DIR"); ok {
		cfg.KeychainFileDir = v
	}
	if v, ok := os.LookupEnv("KEYCHAIN_FILE_PASSWORD"); ok {
		cfg.KeychainFilePassword = v
	}
}
