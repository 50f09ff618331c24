package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"jewelflow/internal/config"
	"jewelflow/internal/document"
	"jewelflow/internal/service/ingest"
	"jewelflow/internal/service/syncer"
	"jewelflow/internal/storage/local"
	"jewelflow/internal/storage/mysql"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	remote, err := mysql.New(*cfg)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := local.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to open local store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	syncService := syncer.NewService(log, remote, store)
	ingestService := ingest.NewService(log, document.NewPDFExtractor())

	// serve from the cached snapshot immediately, refresh in the background
	if snap, err := syncService.Hydrate(); err != nil {
		log.Error("cache hydration failed", slog.String("error", err.Error()))
	} else {
		log.Info("local cache hydrated",
			slog.Int("orders", len(snap.Orders)),
			slog.Int("designs", len(snap.Designs)),
			slog.Int("skipped_orders", snap.SkippedOrders),
			slog.Int("skipped_designs", snap.SkippedDesigns),
		)
	}

	go syncLoop(log, syncService, cfg.SyncInterval)

	log.Info("server started", slog.String("address", cfg.Address))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, remote, ingestService, syncService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Error("failed start server", slog.String("error", err.Error()))
	}

	log.Error("server stopped")
}

// syncLoop is the opportunistic sweep: every interval it tries to drain the
// queue and refresh the caches. Failures are logged and retried next tick.
func syncLoop(log *slog.Logger, s *syncer.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		report, err := s.Sync(ctx)
		cancel()
		if err != nil {
			log.Warn("background sync failed", slog.String("error", err.Error()))
			continue
		}
		if report.Drained > 0 || report.Remaining > 0 {
			log.Info("background sync",
				slog.Int("drained", report.Drained),
				slog.Int("remaining", report.Remaining),
			)
		}
	}
}

type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		err = h.coreHandler.Handle(ctx, r)
		if err != nil {
			return err
		}
	}

	// errors additionally go to the error log file
	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		_ = h.errorHandler.Handle(ctx, r.Clone())
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case envLocal, envProd:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		slog.Warn("cannot open error log file", "error", err)
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	return slog.New(&dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	})
}
