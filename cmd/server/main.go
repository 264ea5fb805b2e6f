package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/mindmirror/config"
	"github.com/spacesedan/mindmirror/internal/app"
	"github.com/spacesedan/mindmirror/internal/logging"
	"github.com/spacesedan/mindmirror/internal/server"
)

func main() {
	config.LoadEnv(config.AppEnv())
	logging.InitLogger()

	settings, err := config.FromEnv()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, settings)
	stop()
	if err != nil {
		slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Main] Server stopped")
}

// run serves until ctx is cancelled. Sources are released before it returns.
func run(ctx context.Context, settings config.Settings) error {
	a, err := app.New(settings)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer a.Close()
	defer cancel()
	a.Start(ctx)

	srv := server.NewServer(server.RouterConfig{
		AnalyzeHandler: server.NewAnalyzeHandler(a.Pipeline),
		HealthHandler:  server.NewHealthHandler(a.Status),
	})
	return srv.Run(ctx, settings.HTTPAddr)
}
