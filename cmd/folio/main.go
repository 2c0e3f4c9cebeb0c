package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/folio/internal/api"
	"github.com/alexanderramin/folio/internal/cli"
	"github.com/alexanderramin/folio/internal/config"
	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/logging"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/alexanderramin/folio/internal/service"
	"github.com/alexanderramin/folio/internal/session"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir, config.DefaultPath(dir))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	uow := db.NewSQLiteUnitOfWork(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database, uow)
	commitRepo := repository.NewSQLiteCommitLogRepo(database)

	sessions := session.NewManager(sessionRepo)
	if err := sessions.Load(context.Background()); err != nil {
		return err
	}

	client := api.NewClient(cfg.APIURL, cfg.Timeout(), sessions, api.WithLogger(logger.Named("api")))
	observer := service.NewZapUseCaseObserver(logger.Named("service"))

	app := &cli.App{
		Orders:  service.NewOrderService(client, commitRepo, observer),
		Content: service.NewContentService(client, observer),
		Auth:    service.NewAuthService(client, sessions, observer),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	logger.Debug("starting", zap.String("api_url", cfg.APIURL), zap.String("db", cfg.DBPath))

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
