package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/autocube/cubo/pkg/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "WebSocket chat server for external UIs",
	Long: `Serve the chat endpoint over WebSocket at /chat.

Each connection gets its own conversation. The avatars are shared: every
session's animation commands drive the same registry, so a frontend
rendering the avatars sees all connected conversations animate them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	eng, err := buildEngine(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer eng.close()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv, err := server.New(server.Options{
		Addr:       addr,
		NewSession: eng.newSession,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				eng.registry.Tick(tickInterval.Seconds())
			}
		}
	}()

	return srv.ListenAndServe(ctx)
}
