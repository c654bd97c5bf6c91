package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nextapp/nextappd/app"
	"github.com/nextapp/nextappd/config"
	"github.com/nextapp/nextappd/db"
	"github.com/nextapp/nextappd/errors"
	"github.com/nextapp/nextappd/logger"
	"github.com/nextapp/nextappd/pubsub"
	"github.com/nextapp/nextappd/server"
)

var (
	serverDBPath     string
	serverListenAddr string
)

// ServerCmd starts the nextappd RPC server.
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   "Start the nextappd RPC server",
	RunE:    runServer,
}

func init() {
	ServerCmd.Flags().StringVar(&serverDBPath, "db-path", "", "Database path (overrides config)")
	ServerCmd.Flags().StringVar(&serverListenAddr, "listen", "", "Listen address (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	listenAddr := serverListenAddr
	if listenAddr == "" {
		listenAddr = cfg.Server.ListenAddr
	}

	conn, dbPath, err := openDatabase(serverDBPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	shutdownTimeout, err := time.ParseDuration(cfg.Server.ShutdownTimeout)
	if err != nil {
		shutdownTimeout = server.DefaultShutdownTimeout
	}

	gw := db.NewGateway(conn, logger.Logger)
	registry := pubsub.NewRegistry(logger.Logger)
	registry.SetRateLimit(cfg.Pubsub.RateLimitPerSecond, cfg.Pubsub.RateLimitBurst)
	application := app.New(gw, registry, logger.Logger)

	srv, err := server.New(listenAddr, application, registry, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "create server")
	}

	printStartupBanner(listenAddr, dbPath)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start() }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return errors.Wrap(err, "server failed to start")
	case <-sigChan:
		pterm.Info.Println("\nShutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			shutdownDone <- srv.Stop(ctx)
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			pterm.Warning.Println("\nForce shutdown - exiting immediately")
			os.Exit(1)
			return nil // unreachable
		}
	}
}
