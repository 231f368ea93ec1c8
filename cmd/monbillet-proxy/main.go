// Command monbillet-proxy serves the monbillet API through the caching
// client as a small JSON HTTP service.
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

	"github.com/Sternrassler/monbillet-client/internal/config"
	"github.com/Sternrassler/monbillet-client/pkg/client"
	"github.com/Sternrassler/monbillet-client/pkg/logging"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "monbillet-proxy: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logging.Setup(logging.Config{
		Level:   logging.LogLevel(cfg.LogLevel),
		Pretty:  cfg.LogPretty,
		Service: "monbillet-proxy",
		Output:  os.Stderr,
	})
	logger := logging.NewLogger("monbillet-proxy")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clientCfg := cfg.ClientConfig()

	// Setup Redis
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
		clientCfg.Redis = redisClient
	}

	mb, err := client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("create monbillet client: %w", err)
	}
	defer mb.Close()

	if !cfg.HasAPIKey() {
		logger.Warn().Msg("MB_API_KEY not set, serving cached data only")
	}
	if mb.Store() == nil {
		logger.Warn().Msg("No cache configured (MB_CACHE_DIR or MB_REDIS_URL)")
	}

	if cfg.WarmCron != "" {
		sched, err := startWarmer(cfg.WarmCron, mb, logger)
		if err != nil {
			return err
		}
		defer sched.Stop()
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newServer(mb, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Str("base_url", clientCfg.BaseURL).
			Msg("Starting monbillet proxy server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
