package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tair/foodgram/internal/cli"
	"github.com/tair/foodgram/pkg/logger"
)

func main() {
	logger.Init("foodgramctl", true)
	logger.SetLevel("warn")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cli.DatabaseConnector).ExecuteContext(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}
