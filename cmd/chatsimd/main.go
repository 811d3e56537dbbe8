// Command chatsimd runs the reference chat backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/backend"
	"github.com/fixitnow/chatsync/internal/config"
	"github.com/fixitnow/chatsync/internal/logging"
	"github.com/fixitnow/chatsync/internal/session"
)

func main() {
	configFlag := pflag.StringP("config", "c", "", "config file (default $CHATSYNC_HOME/config.toml)")
	listenFlag := pflag.String("listen", "", "listen address (overrides server.listen)")
	dbFlag := pflag.String("db", "", "database path (overrides server.db_path)")
	pflag.Parse()

	path := *configFlag
	if path == "" {
		path = session.ConfigPath()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *listenFlag != "" {
		cfg.Server.Listen = *listenFlag
	}
	if *dbFlag != "" {
		cfg.Server.DBPath = *dbFlag
	}

	logger, err := logging.NewConsole("chatsimd", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("chatsimd stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	store, err := backend.OpenStore(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	users := make([]backend.User, 0, len(cfg.Server.Users))
	for _, u := range cfg.Server.Users {
		users = append(users, backend.User{ID: u.ID, Name: u.Name, Token: u.Token})
	}
	if err := store.SeedUsers(users); err != nil {
		return err
	}

	srv := backend.NewServer(store, logger)
	httpSrv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Listen), zap.Int("users", len(users)))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	srv.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
