package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rajangupta9/taskmanager/config"
	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/handlers"
	"github.com/Rajangupta9/taskmanager/logging"
	"github.com/Rajangupta9/taskmanager/service"
	"github.com/Rajangupta9/taskmanager/store"
	"github.com/Rajangupta9/taskmanager/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server on server.port (PORT, default 5000). The server
stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newAPI wires the services and routes on top of st.
func newAPI(cfg *config.Config, st store.Store, logger *logging.Logger) http.Handler {
	timeout := cfg.Database.Timeout
	tokens := utils.NewTokenManager(cfg.Auth.TokenSecret, cfg.Auth.ExpiresIn)

	h := handlers.New(
		service.NewUserService(st, cfg.Auth.BcryptCost, timeout),
		service.NewTaskService(st, timeout),
		service.NewSessionAuthenticator(st, tokens, timeout),
		st,
		handlers.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		logger,
	)
	return handlers.NewRouter(h)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      newAPI(cfg, st, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     logging.NewStdLogger(logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "driver", cfg.Database.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
