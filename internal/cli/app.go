// Package cli implements the interactive front end over the vault service:
// registration, login, and storing/retrieving encrypted service keys. The
// logged-in identity is session state of this layer only; the service
// itself authenticates statelessly per call.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/avetrovs/swipevault/internal/config"
	"github.com/avetrovs/swipevault/internal/keychain"
	"github.com/avetrovs/swipevault/internal/logging"
	"github.com/avetrovs/swipevault/internal/vault"
)

type App struct {
	config  *config.Config
	service *vault.Service
	db      *sql.DB
	reader  *bufio.Reader

	// identity of the logged-in user, empty when logged out
	identity string
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := vault.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	keys, err := keychain.Open(keychain.Config{
		ServiceName:  cfg.KeychainService,
		FileDir:      cfg.KeychainFileDir,
		FilePassword: cfg.KeychainFilePassword,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log := logging.NewTextLogger(os.Stderr, slog.LevelInfo)
	svc := vault.NewService(db, keys, log)

	return &App{
		config:  cfg,
		service: svc,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.db.Close() }()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.identity != ""
}
