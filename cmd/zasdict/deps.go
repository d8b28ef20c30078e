package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/ersonp/zasdict/internal/application/handlers"
	"github.com/ersonp/zasdict/internal/domain/collation"
	"github.com/ersonp/zasdict/internal/domain/ports"
	"github.com/ersonp/zasdict/internal/domain/services"
	"github.com/ersonp/zasdict/internal/infrastructure/config"
	"github.com/ersonp/zasdict/internal/infrastructure/document/jsonfile"
	"github.com/ersonp/zasdict/internal/infrastructure/journal/sqlite"
	"github.com/ersonp/zasdict/internal/infrastructure/logging"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	Logger         *slog.Logger
	Collator       *collation.Collator
	Session        *handlers.Session
	EntryHandler   *handlers.EntryHandler
	QueryHandler   *handlers.QueryHandler
	HistoryHandler *handlers.HistoryHandler
	ImportHandler  *handlers.ImportHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	store      *jsonfile.Store
	dictionary *services.DictionaryService
}

// loadConfig reads the config of the working directory and applies the
// --dict flag.
func loadConfig() (string, *config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return "", nil, fmt.Errorf("loading config: %w", err)
	}

	if globalDictPath != "" {
		cfg.Dictionary.Path = globalDictPath
	}
	return cwd, cfg, nil
}

// withDeps loads config and builds dependencies, then calls the provided
// function while the session's query worker runs. One-shot commands save a
// dirty dictionary before returning.
func withDeps(ctx context.Context, fn func(context.Context, *Deps) error) error {
	return withInternalDeps(ctx, func(ctx context.Context, d *internalDeps) error {
		if err := fn(ctx, &d.Deps); err != nil {
			return err
		}
		if d.dictionary.Dirty() {
			return d.dictionary.Save(ctx)
		}
		return nil
	})
}

// withInternalDeps provides access to all dependencies including low-level
// components. The query worker stops when fn returns.
func withInternalDeps(ctx context.Context, fn func(context.Context, *internalDeps) error) error {
	cwd, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stderr)
	store := jsonfile.NewStore(cfg.DictionaryPath(cwd))

	var journal ports.Journal
	if cfg.Journal.Enabled {
		j, err := sqlite.Open(cfg.JournalPath(cwd))
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer j.Close()

		if err := j.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensuring journal schema: %w", err)
		}
		journal = j
	}

	collator := collation.New(cfg.Collation.Alphabet)
	dictionary := services.NewDictionaryService(store, journal, services.NewRelationService(logger), logger)
	dictionary.SetAutoSave(cfg.Dictionary.AutoSave)

	snap, err := dictionary.Load(ctx)
	if errors.Is(err, jsonfile.ErrNoDocument) {
		return fmt.Errorf("%w (run 'zasdict init' or pass --dict)", err)
	}
	if err != nil {
		return fmt.Errorf("loading dictionary: %w", err)
	}

	session := handlers.NewSession(services.NewQueryService(collator), logger)
	session.Install(snap)

	deps := &internalDeps{
		Deps: Deps{
			Config:         cfg,
			Logger:         logger,
			Collator:       collator,
			Session:        session,
			EntryHandler:   handlers.NewEntryHandler(dictionary, session),
			QueryHandler:   handlers.NewQueryHandler(session),
			HistoryHandler: handlers.NewHistoryHandler(journal),
			ImportHandler:  handlers.NewImportHandler(services.NewImportService(dictionary), session),
		},
		store:      store,
		dictionary: dictionary,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return fn(gctx, deps)
	})
	return g.Wait()
}
