package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docbuilder/api"
	"docbuilder/config"
	"docbuilder/draft"
	"docbuilder/intake"
	"docbuilder/notify"
	"docbuilder/snippet"
	"docbuilder/sqlitedb"
	"docbuilder/storage"
	"docbuilder/templates"
	"docbuilder/ui"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.ApplyEnv(os.Getenv)
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	db, err := sqlitedb.Open(cfg.DBPath(), storage.Schema)
	if err != nil {
		return err
	}
	defer db.Close()

	st, err := openStorage(cfg, db)
	if err != nil {
		return err
	}
	repo, err := templates.NewRepository(db)
	if err != nil {
		return err
	}
	snippets, err := snippet.NewManager(cfg.SnippetsPath())
	if err != nil {
		return fmt.Errorf("load snippets: %w", err)
	}

	svc := &api.Services{
		Drafts:    draft.NewStore(st, draft.WithLogger(log)),
		Notify:    notify.NewCenter(),
		Snippets:  snippets,
		Templates: repo,
		Themes:    ui.Themes{Storage: st},
		Upload: intake.Options{
			Accept:   cfg.Upload.Accept,
			MaxSize:  cfg.MaxFileBytes(),
			Multiple: cfg.Upload.Multiple,
		},
		Editor: api.EditorOptions{
			AutosaveInterval: cfg.Editor.AutosaveInterval,
			RestoreDelay:     cfg.Editor.RestoreDelay,
			PreviewDebounce:  cfg.Editor.PreviewDebounce,
			FieldLimit:       cfg.Editor.FieldDisplayLimit,
		},
		ToastDuration: cfg.Notify.Duration,
		Log:           log,
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.RegisterRoutes(svc, staticFiles),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("docbuilder listening", "addr", cfg.Listen, "storage", cfg.Storage.Backend)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStorage(cfg *config.Config, db *sql.DB) (storage.Storage, error) {
	if cfg.Storage.Backend == "file" {
		st, err := storage.NewFile(cfg.StoragePath())
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		return st, nil
	}
	return storage.NewSQLite(db), nil
}
