package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdrrmo/portal"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := portal.New(loadConfig())
		defer func() {
			if err := app.Close(); err != nil {
				logger.Errorf("close: %v", err)
			}
		}()

		errc := make(chan error, 1)
		go func() { errc <- app.Start() }()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		select {
		case err := <-errc:
			return err
		case s := <-sig:
			logger.Infof("received %s, shutting down", s)
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			return err
		}
		return <-errc
	},
}
