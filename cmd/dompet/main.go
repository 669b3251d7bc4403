package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"dompet/internal/app"
	"dompet/internal/cli"
	apphttp "dompet/internal/http"
	"dompet/internal/ledger"
	applog "dompet/internal/log"
	"dompet/internal/session"
)

func main() {
	cli.LoadEnvFile()

	// Bootstrap at info level until the configured level is known.
	cfg := cli.LoadAndValidateConfig(cli.SetupLogger("info"))
	logger := cli.SetupLogger(cfg.LogLevel)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	res := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Failed to close session backend", "error", err)
		}
	}()

	sess := session.New(res.Markers)
	if err := sess.Restore(ctx); err != nil {
		// a broken marker only costs the restored login
		logger.Warn("Failed to restore session", "error", err)
	}

	a := app.New(ledger.New(), sess, app.Options{
		CacheSize: cfg.ViewCacheSize,
		CacheTTL:  cfg.ViewCacheTTL,
	})

	srv := apphttp.NewServer(":"+cfg.Port, a, apphttp.Options{
		CurrencyPrefix:     cfg.CurrencyPrefix,
		GoogleClientID:     cfg.GoogleClientID,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ready:              res.Ready,
		Logger:             logger,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting dompet server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			applog.FieldSessionBackend, cfg.SessionBackend,
			"google_sign_in", cfg.GoogleSignInEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		_ = res.Close()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
