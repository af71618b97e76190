package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnubhavPadiyar/spotscout-server/internal/app"
	"github.com/AnubhavPadiyar/spotscout-server/internal/clock"
	"github.com/AnubhavPadiyar/spotscout-server/internal/config"
	"github.com/AnubhavPadiyar/spotscout-server/internal/controller/httpapi"
	"github.com/AnubhavPadiyar/spotscout-server/internal/repository"
	"github.com/AnubhavPadiyar/spotscout-server/internal/service"
	"github.com/AnubhavPadiyar/spotscout-server/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer kv.Close()

	clk := clock.Real()
	libraryRepo := repository.NewLibraryRepository(kv, logger)
	bookingRepo := repository.NewBookingRepository(kv, logger)
	studentRepo := repository.NewStudentRepository(kv, logger)

	engine := service.NewBookingService(libraryRepo, bookingRepo, clk, cfg.ReserveWindow, cfg.SessionWindow, logger)
	libraries := service.NewLibraryService(libraryRepo, engine, cfg.MasterPIN, logger)
	students := service.NewStudentService(studentRepo, logger)

	scheduler := app.NewSweepScheduler(engine, cfg.SweepInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	handler := httpapi.NewHandler(libraries, engine, students, clk, logger)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler, logger),
	}

	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("store_backend", cfg.StoreBackend),
			zap.Duration("reserve_window", cfg.ReserveWindow),
			zap.Duration("session_window", cfg.SessionWindow),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.KV, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		defer migrator.Close()
		if err := migrator.Run(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return store.NewPostgres(pool), nil

	case config.BackendRedis:
		r := store.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err := r.Ping(ctx); err != nil {
			r.Close()
			return nil, err
		}
		return r, nil

	default:
		logger.Warn("using in-memory store, nothing will survive a restart")
		return store.NewMemory(), nil
	}
}
