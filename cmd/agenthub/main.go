// Command agenthub runs the AgentHub server: a roster of AI agent personas
// behind a REST and WebSocket API, with delegation, task tracking and
// long-term memory on SQLite.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agenthubhq/agenthub"
	"github.com/agenthubhq/agenthub/config"
	"github.com/agenthubhq/agenthub/logging"
)

// version can be overridden at build time via:
// go build -ldflags "-X main.version=1.2.3"
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "agenthub",
		Short:         "Multi-agent AI system with delegation and task tracking",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(serveCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			logger := logging.NewLogger(&logging.LoggerConfig{
				Level:  logging.ParseLevel(cfg.LogLevel),
				Format: cfg.LogFormat,
				Output: os.Stdout,
			})

			h, err := agenthub.New(func(o *agenthub.Options) {
				o.Config = cfg
				o.Logger = logger
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- h.Serve(ctx)
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return h.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides AGENTHUB_ADDR)")
	return cmd
}
