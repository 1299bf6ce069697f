package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"bilan/internal/amqp"
	"bilan/internal/backend"
	"bilan/internal/cli"
	"bilan/internal/core"
	apphttp "bilan/internal/http"
	"bilan/internal/services"
	"bilan/internal/session"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	policy, err := cfg.Policy()
	if err != nil {
		logger.Error("Invalid budget policy configuration", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize session backend", "error", err, "backend", cfg.SessionBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	// AMQP export pipeline is optional; analyses still run without it.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		logger.Info("AMQP export pipeline enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	var archive services.Archiver
	if result.Archive != nil {
		archive = result.Archive
	}

	svc := services.NewAnalysisService(result.Store, archive, amqpClient, policy, core.DefaultRules())
	defer svc.Close()

	srv := apphttp.NewServer(":"+cfg.Port, svc)
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting bilan server", "port", cfg.Port, "session_backend", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return runSessionMaintenance(gctx, logger, result, cfg.SessionTTL)
	})
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

// runSessionMaintenance periodically evicts expired sessions from the active
// backend so abandoned uploads do not accumulate.
func runSessionMaintenance(ctx context.Context, logger *slog.Logger, result *backend.BackendResult, ttl time.Duration) error {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ms, ok := result.Store.(*session.MemoryStore); ok {
				if removed := ms.CleanExpired(); removed > 0 {
					logger.Debug("Expired sessions removed", "count", removed)
				}
			}
			if result.Archive != nil {
				cutoff := time.Now().Add(-ttl)
				if err := result.Archive.PurgeSessionsBefore(ctx, cutoff); err != nil {
					logger.Warn("Session purge failed", "error", err)
				}
			}
		}
	}
}
