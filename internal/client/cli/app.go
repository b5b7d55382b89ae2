// Package cli implements the interactive Shelfie terminal client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"github.com/shelfie-app/shelfie/internal/client/api"
	"github.com/shelfie-app/shelfie/internal/client/config"
	"github.com/shelfie-app/shelfie/internal/client/repositories/tokens"
	"github.com/shelfie-app/shelfie/internal/client/services"
	"github.com/shelfie-app/shelfie/internal/client/session"
	"github.com/shelfie-app/shelfie/internal/logging"
)

type App struct {
	config     *config.Config
	session    *session.Manager
	collection *services.CollectionService
	identify   *services.IdentifyService
	log        logging.Logger
	reader     *bufio.Reader
	closeDB    func() error
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := tokens.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	authClient := api.NewAuthClient(cfg.AuthServerAddr, cfg.AuthTimeout)
	sess := session.NewManager(db, authClient, logger)

	authed := &http.Client{Transport: &api.AuthTransport{
		Source: sess,
		OnAuthLost: func() {
			fmt.Println("Session expired, please log in again.")
		},
	}}
	collectionClient := api.NewCollectionClient(cfg.AuthServerAddr, authed, cfg.RequestTimeout)

	return &App{
		config:     cfg,
		session:    sess,
		collection: services.NewCollectionService(collectionClient, sess, logger),
		identify:   services.NewIdentifyService(api.NewIdentifyClient(cfg.RequestTimeout), sess, logger),
		log:        logger,
		reader:     bufio.NewReader(os.Stdin),
		closeDB:    db.Close,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.closeDB() }()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}
