package main

import (
	"context"
	"log/slog"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/veldt-dev/veldt/internal/config"
	"github.com/veldt-dev/veldt/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server with hot reload.

The dev server watches for file changes, recompiles both passes, and
automatically refreshes connected browsers. Build errors show up as
an overlay in the browser.

Examples:
  veldt dev
  veldt dev --port=8080
  veldt dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from veldt.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from veldt.json)")

	return cmd
}

func runDev(port int, host string) error {
	if _, err := exec.LookPath("go"); err != nil {
		errorMsg("Go is not installed or not in PATH")
		info("Install Go from https://go.dev/dl/")
		return err
	}

	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	printBanner()
	info("dev")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return dev.NewServer(cfg, slog.Default()).Run(ctx)
}
