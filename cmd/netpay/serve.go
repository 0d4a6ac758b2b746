package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rgehrsitz/netpay/internal/app/server"
	"github.com/rgehrsitz/netpay/internal/config"
	"github.com/rgehrsitz/netpay/internal/observability/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the calculation API. Settings come from netpay.yaml (or --config) and
NETPAY_* environment variables (NETPAY_ADDR, NETPAY_REDIS_ADDR, ...). With --watch, edits to default_year and log_level in
the file are applied without a restart.`,
	Args: cobra.NoArgs,
	Run:  fatalOnError(runServe),
}

func init() {
	serveCmd.Flags().StringP("config", "c", "", "Server config file (default ./netpay.yaml or /etc/netpay/netpay.yaml)")
	serveCmd.Flags().Bool("watch", true, "Reload default_year and log_level when the config file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	watch, _ := cmd.Flags().GetBool("watch")
	holder, err := config.LoadServerConfig(path, watch)
	if err != nil {
		return err
	}
	cfg := holder.Get()

	log, err := logger.New(logger.Config{
		Environment:   cfg.Environment,
		Version:       version,
		Level:         cfg.LogLevel,
		Format:        cfg.LogFormat,
		IncludeCaller: true,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log.Logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, holder, log)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
