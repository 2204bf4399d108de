package config

import (
	"flag"
	"os"

	"github.com/avetrovs/swipevault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags:
//
//	-d string   path to the vault database file
//	-k string   keychain service name
//	-f string   directory for the encrypted-file keyring backend
//
// os.Args is filtered down to these flags first so the -c/-config flags of
// the JSON layer do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-k", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the vault database file")
	fs.StringVar(&cfg.KeychainService, "k", cfg.KeychainService, "keychain service name")
	fs.StringVar(&cfg.KeychainFileDir, "f", cfg.KeychainFileDir, "directory for the file keyring backend")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
