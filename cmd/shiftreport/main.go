package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AcryCxde/shift-report/internal/config"
	"github.com/AcryCxde/shift-report/internal/scheduler"
	"github.com/AcryCxde/shift-report/internal/service/analytics"
	"github.com/AcryCxde/shift-report/internal/service/blank"
	"github.com/AcryCxde/shift-report/internal/service/excel"
	"github.com/AcryCxde/shift-report/internal/service/importexport"
	"github.com/AcryCxde/shift-report/internal/storage/mysql"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	storage, err := mysql.New(*cfg)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	blankService := blank.NewService(storage)
	analyticsService := analytics.NewService(storage)
	importExportService := importexport.NewService(storage)
	excelService := excel.NewExcelService(storage)

	// Планировщик автосоздания бланков включается только при заданном
	// расписании
	if cfg.BlankCronSpec != "" {
		sched := scheduler.New(cfg.BlankCronSpec, storage, blankService, log)
		if err := sched.Start(); err != nil {
			log.Error("failed to start scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer sched.Stop()
	}

	log.Info("server started", slog.String("address", cfg.Address))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, storage, blankService, analyticsService, importExportService, excelService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed start server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-done
	log.Info("stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to stop server", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
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

	// Всегда пишем в основной вывод (stdout)
	if h.coreHandler.Enabled(ctx, r.Level) {
		err = h.coreHandler.Handle(ctx, r)
		if err != nil {
			return err
		}
	}

	// Если это ошибка — пишем в файл
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
	var level slog.Level = slog.LevelDebug
	switch env {
	case envProd:
		level = slog.LevelInfo
	}

	// Основной handler — пишет всё в stdout
	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	// Файловый handler — только ошибки
	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		slog.Warn("Cannot open error log file", "error", err)
		return slog.New(coreHandler) // продолжаем без файла
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	return slog.New(&dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	})
}
