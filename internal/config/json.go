package config

import (
	"encoding/json"
	"os"

	"github.com/avetrovs/swipevault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// stay empty and leave the already-loaded values untouched.
type JsonConfig struct {
	DatabasePath    string `json:"database_path"`
	KeychainService string `json:"keychain_service"`
	KeychainFileDir string `json:"keychain_file_dir"`
}

// parseJson overlays Config with values from the JSON file named by the
// -c/-config flags. No flag, no file, no overlay. Read or parse errors
// panic: a config file that exists but cannot be used is a startup defect.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.KeychainService != "" {
		cfg.KeychainService = jc.KeychainService
	}
	if jc.KeychainFileDir != "" {
		cfg.KeychainFileDir = jc.KeychainFileDir
	}
}
