package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopdispatch/cmd"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(configs)
	slog.SetDefault(logger)

	app, err := cmd.NewCompositionRoot(configs, logger)
	if err != nil {
		logger.Error("Failed to build application", "error", err)
		os.Exit(1)
	}

	if err := app.Jobs().StartAll(); err != nil {
		// A domain that fails to open stays closed; the others keep running.
		logger.Error("Failed to open some views", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := startWebServer(ctx, app, configs, logger); err != nil {
		logger.Error("Web server stopped", "error", err)
	}

	if err := app.Close(); err != nil {
		logger.Error("Failed to release resources", "error", err)
	}
}

func newLogger(configs cmd.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: configs.SlogLevel()}
	if configs.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func echoLevel(level slog.Level) log.Lvl {
	switch {
	case level <= slog.LevelDebug:
		return log.DEBUG
	case level <= slog.LevelInfo:
		return log.INFO
	case level <= slog.LevelWarn:
		return log.WARN
	default:
		return log.ERROR
	}
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) error {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(echoLevel(configs.SlogLevel()))
	e.Use(middleware.Recover())

	app.CreateServer().Register(e)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting web server", "port", configs.HTTPPort)
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%d", configs.HTTPPort))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down web server")
	return e.Shutdown(shutdownCtx)
}
