// Package config assembles runtime settings for the vault CLI from
// defaults, the process environment (with optional .env file), an optional
// JSON config file, and command-line flags. Later sources win.
package config

// Config holds runtime settings for the vault CLI.
type Config struct {
	// DatabasePath is the SQLite file holding users and secrets.
	DatabasePath string

	// KeychainService scopes the master-key entry in the OS keychain.
	KeychainService string

	// KeychainFileDir, when set, enables the encrypted-file keyring backend
	// for hosts without a native keychain.
	KeychainFileDir string

	// KeychainFilePassword unlocks the file backend. Environment-only; never
	// a flag so it does not land in shell history.
	KeychainFilePassword string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "vault.db"
	c.KeychainService = "swipevault"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given), and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
