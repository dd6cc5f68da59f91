package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cryptopulse/internal/bootstrap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run all collectors and the aggregation on their schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		container := bootstrap.NewContainer()
		container.MustInit()

		if err := container.Start(); err != nil {
			container.Shutdown()
			return err
		}

		waitForShutdown(container)
		return nil
	},
}

// waitForShutdown blocks until a signal arrives or the container cancels itself
func waitForShutdown(container *bootstrap.Container) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		container.Log.Infow("Shutdown signal received", "signal", sig.String())
	case <-container.Context.Done():
		container.Log.Warn("Application context cancelled")
	}

	container.Shutdown()
}
