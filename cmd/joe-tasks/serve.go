package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"github.com/joestump/joe-tasks/internal/auth"
	"github.com/joestump/joe-tasks/internal/build"
	"github.com/joestump/joe-tasks/internal/config"
	"github.com/joestump/joe-tasks/internal/db"
	"github.com/joestump/joe-tasks/internal/handler"
	"github.com/joestump/joe-tasks/internal/metrics"
	"github.com/joestump/joe-tasks/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Debug && !debug {
				setupLogs(true)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)
			taskStore := store.NewTaskStore(database)
			metrics.RefreshTasks(ctx, taskStore)
			if err := metrics.StartRefresher(ctx, taskStore, cfg.Metrics.Refresh); err != nil {
				return err
			}

			deps := handler.Deps{
				SessionManager: sessionManager,
				TaskStore:      taskStore,
				AllowedOrigins: cfg.CORS.AllowedOrigins,
			}
			if cfg.AuthEnabled() {
				provider, err := auth.NewProvider(ctx, cfg)
				if err != nil {
					return err
				}
				userStore := store.NewUserStore(database)
				deps.AuthHandlers = auth.NewHandlers(provider, sessionManager, userStore, cfg.AdminEmail, !cfg.InsecureCookies)
				deps.AuthMiddleware = auth.NewMiddleware(sessionManager, userStore)
				log.Printf("[INFO] oidc login enabled, issuer %s", cfg.OIDC.Issuer)
			} else {
				log.Printf("[WARN] oidc issuer not set, task list is open to anyone")
			}

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           handler.NewRouter(deps),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("[INFO] joe-tasks %s listening on %s (%s)", build.String(), cfg.HTTP.Addr, cfg.DB.Driver)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Printf("[INFO] shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
}
