package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-docflow/internal/httpapi"
	"github.com/goliatone/go-docflow/pkg/store"
	"github.com/goliatone/go-docflow/pkg/store/memory"
	"github.com/goliatone/go-docflow/pkg/store/postgres"
)

type config struct {
	Host        string
	Port        string
	PostgresDSN string
}

func loadConfig() config {
	return config{
		Host:        envOr("DOCFLOW_HOST", "0.0.0.0"),
		Port:        envOr("DOCFLOW_PORT", "8080"),
		PostgresDSN: os.Getenv("DOCFLOW_POSTGRES_DSN"),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg := loadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	api := httpapi.New(st, logger)
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openStore picks the backend: postgres when a DSN is configured, otherwise
// the in-memory store for local development.
func openStore(ctx context.Context, cfg config, logger *zap.Logger) (store.Store, error) {
	if cfg.PostgresDSN == "" {
		logger.Info("using in-memory store")
		return memory.New(), nil
	}
	logger.Info("using postgres store")
	return postgres.New(ctx, cfg.PostgresDSN)
}
