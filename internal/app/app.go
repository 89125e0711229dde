package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hance08/tally/internal/catalog"
	"github.com/hance08/tally/internal/categorize"
	"github.com/hance08/tally/internal/config"
	"github.com/hance08/tally/internal/logger"
	"github.com/hance08/tally/internal/service"
	"github.com/hance08/tally/internal/store"
)

type App struct {
	Config  *config.Config
	Log     logger.Logger
	Service *service.Service
	Store   store.Repository
	Catalog *catalog.Snapshot
	Engine  *categorize.Engine
	DBPath  string
}

// NewApp opens the database, loads the chart of accounts and the training
// corpus, and wires the services. The returned cleanup closes the database.
func NewApp(ctx context.Context, cfg *config.Config, migrationFS fs.FS) (*App, func(), error) {
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, err
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		appDir, err := AppDataDir()
		if err != nil {
			return nil, nil, err
		}
		dbPath = filepath.Join(appDir, "tally.db")
	}

	dbStore, err := store.NewStore(dbPath, migrationFS, store.Options{BusyTimeout: cfg.Database.BusyTimeout})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	cleanup := func() {
		if err := dbStore.Close(); err != nil {
			log.WithError(err).Errorf("error closing database")
		}
	}

	a, err := build(ctx, cfg, log, dbStore)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	a.DBPath = dbPath

	return a, cleanup, nil
}

func build(ctx context.Context, cfg *config.Config, log logger.Logger, repo store.Repository) (*App, error) {
	accounts := service.NewAccountService(repo)

	// Remote accounts are mirrored under their own ids so that imports,
	// approvals and journal lines all reference rows of the local table.
	if cfg.Catalog.Source == config.CatalogSourceHTTP {
		remote, err := catalog.Load(ctx, catalog.NewHTTPSource(cfg.Catalog.URL, cfg.Catalog.Timeout))
		if err != nil {
			return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
		}
		skipped, err := accounts.SyncCatalog(ctx, remote.Accounts())
		if err != nil {
			return nil, fmt.Errorf("failed to sync chart of accounts: %w", err)
		}
		for _, name := range skipped {
			log.WithField("account", name).Warnf("remote account not synced, name taken locally or type unknown")
		}
	}

	if cfg.Ledger.EnsureEquityAccounts {
		created, err := accounts.EnsureEquityAccounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create system accounts: %w", err)
		}
		for _, name := range created {
			log.Infof("created system account '%s'", name)
		}
	}

	snapshot, err := catalog.Load(ctx, catalog.NewStoreSource(repo))
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	log.WithFields(logger.Fields{"accounts": snapshot.Len(), "source": cfg.Catalog.Source}).Debugf("chart of accounts loaded")

	corpus, err := categorize.LoadCorpusFile(cfg.Training.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.WithField("path", cfg.Training.Path).Warnf("training data not found, continuing without examples")
	case err != nil:
		return nil, fmt.Errorf("failed to load training data: %w", err)
	default:
		log.WithField("examples", corpus.Len()).Infof("training data loaded")
	}

	if cfg.AI.APIKey == "" {
		log.Warnf("%v; every row will use the fallback categorization", categorize.ErrMissingAPIKey)
	}
	suggester := categorize.NewAnthropicSuggester(categorize.AnthropicConfig{
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.Model,
		BaseURL:   cfg.AI.BaseURL,
		MaxTokens: cfg.AI.MaxTokens,
	})

	engine := categorize.NewEngine(suggester, corpus, categorize.Options{
		Timeout:             cfg.AI.Timeout,
		MaxExamples:         cfg.Training.MaxExamples,
		PrefixLen:           cfg.Training.PrefixLen,
		TrustQBSECategories: cfg.Import.TrustQBSECategories,
	}, log)

	svc := service.NewService(service.Deps{
		Repo:    repo,
		Catalog: snapshot,
		Engine:  engine,
		Config:  cfg,
		Log:     log,
	})

	return &App{
		Config:  cfg,
		Log:     log,
		Service: svc,
		Store:   repo,
		Catalog: snapshot,
		Engine:  engine,
	}, nil
}

// AppDataDir is <UserConfigDir>/tally, falling back to ~/.tally.
func AppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".tally"), nil
	}

	return filepath.Join(configDir, "tally"), nil
}
