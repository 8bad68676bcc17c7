package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/tournament-store/internal/boundary"
	"github.com/AdamBeresnev/tournament-store/internal/config"
	"github.com/AdamBeresnev/tournament-store/internal/datadir"
	"github.com/AdamBeresnev/tournament-store/internal/service"
	"github.com/AdamBeresnev/tournament-store/internal/store"
	"github.com/AdamBeresnev/tournament-store/internal/telemetry"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "tournament-store", cfg.OTelEndpoint)
	if err != nil {
		log.Fatal("Failed to set up tracing: ", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
	}()

	root, err := datadir.EnsureRoot(cfg.StoreRoot())
	if err != nil {
		log.Fatal("Failed to prepare store root: ", err)
	}

	svc := service.NewTournamentService(
		store.NewTournamentStore(root, logger),
		store.NewImageStore(root, logger),
		logger,
	)
	router := newRouter(boundary.NewAdapter(svc, logger), cfg.MaxBodyBytes)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", "http://"+cfg.Addr, "store", root)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
