package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/labprep/internal/app"
	"github.com/abhisek/labprep/internal/catalog"
	"github.com/abhisek/labprep/internal/config"
	"github.com/abhisek/labprep/internal/llm"
	"github.com/abhisek/labprep/internal/logging"
	"github.com/abhisek/labprep/internal/metrics"
	"github.com/abhisek/labprep/internal/session"
	"github.com/abhisek/labprep/internal/store"
	"github.com/abhisek/labprep/internal/tutor"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// The TUI owns the terminal, so logs go to a file next to the database.
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, logFile, err := logging.OpenFile(filepath.Join(filepath.Dir(dbPath), "labprep.log"), level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	eventRepo := st.EventRepo()
	provider, err := llm.NewProviderFromConfig(ctx, cfg.ApplyLLM(llm.ResolveConfig()), eventRepo, logger)
	if err != nil {
		// The app still starts; every tutor turn shows the fallback notice.
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Tutor replies will show an error notice until a credential is set.")
		logger.Warn("llm provider unavailable", "error", err)
	}

	ctrl, err := session.NewController(cat,
		tutor.NewResponder(provider, cfg.ResponderConfig()),
		tutor.NewEvaluator(provider, cfg.EvaluatorConfig()),
		cfg.SessionConfig(),
		session.WithLogger(logger),
		session.WithRecorder(session.NewStoreRecorder(eventRepo)),
	)
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	schema, err := st.SchemaVersion()
	if err != nil {
		logger.Warn("read schema version", "error", err)
	}
	logger.Info("starting", "db", st.Path(), "schema", schema, "topics", cat.Len(), "model", provider.ModelID())
	return app.Run(ctx, app.Options{
		Controller: ctrl,
		Sessions:   eventRepo,
		Logger:     logger,
	})
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}
