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

	"gestao-diaristas/internal/config"
	authsvc "gestao-diaristas/internal/service/auth"
	"gestao-diaristas/internal/tenant"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env, cfg.ErrorLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := tenant.NewRegistry(ctx, *cfg, log)
	if err != nil {
		log.Error("falha ao abrir banco mestre", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := registry.Close(); err != nil {
			log.Error("falha ao fechar bancos", slog.String("error", err.Error()))
		}
	}()

	tokens := authsvc.NewTokens(cfg.Auth.Secret, cfg.TokenTTL)
	login := authsvc.NewService(registry.Master(), tokens, log)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, registry, login, tokens),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("driver", cfg.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}

// dualHandler writes every record to the main handler and copies errors to
// the error log file.
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
		if err = h.coreHandler.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		// arquivo de erros é secundário, falha nele não derruba o log
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

func setupLogger(env, errorLog string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	errorFile, err := os.OpenFile(errorLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		slog.Warn("não foi possível abrir o log de erros", "path", errorLog, "error", err)
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})

	return slog.New(&dualHandler{coreHandler: coreHandler, errorHandler: errorHandler})
}
