package main

import (
	"autorace-crawler/cmd/autorace-cli/commands"
	"autorace-crawler/internal/components/telemetry"
	"context"
	"errors"
	"log/slog"
	"os"
	"time"
)

func main() {
	ctx := context.Background()
	telemetry.InitSlog(false)

	tel, err := telemetry.SetupFromEnv(ctx, "autorace-cli")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to setup telemetry export", "err", err)
	}

	err = commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	shutdownErr := tel.Shutdown(shutdownCtx)
	cancel()
	if shutdownErr != nil {
		slog.Warn("failed to shutdown telemetry", "err", shutdownErr)
	}

	if err != nil {
		os.Exit(1)
	}
}
