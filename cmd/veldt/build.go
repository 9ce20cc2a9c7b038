package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/veldt-dev/veldt/internal/build"
	"github.com/veldt-dev/veldt/internal/config"
)

func buildCmd() *cobra.Command {
	var (
		output string
		minify bool
		clean  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build for production",
		Long: `Build the application for production deployment.

This command:
  • Compiles the client to js/wasm
  • Stages wasm_exec.js and the hydration bootstrap
  • Compiles the worker binary
  • Fingerprints assets and writes manifest.json

Examples:
  veldt build
  veldt build --output=dist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(output, minify, clean)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from veldt.json)")
	cmd.Flags().BoolVar(&minify, "minify", true, "Strip debug symbols")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clean output directory before build")

	return cmd
}

func runBuild(output string, minify, clean bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if output != "" {
		cfg.Build.Output = output
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Println("  Building for production...")
	fmt.Println()

	builder := build.New(cfg, build.Options{
		Minify:      minify,
		Fingerprint: true,
		OnProgress: func(step string) {
			info(step)
		},
	})

	if clean {
		builder.Clean()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	success("Build complete in %s", result.Duration.Round(1000000))
	fmt.Println()
	fmt.Println("  Output:")
	fmt.Printf("    %s/\n", cfg.Build.Output)
	fmt.Printf("    ├── worker          # server binary\n")
	fmt.Printf("    ├── %s/\n", cfg.Site.PkgDir)
	fmt.Printf("    │   └── %s.wasm  (%s)\n", cfg.Site.OutputName, formatBytes(result.WasmSize))
	fmt.Printf("    └── manifest.json   (%d assets)\n", result.Manifest.Len())
	fmt.Println()
	fmt.Println("  To run:")
	fmt.Printf("    VELDT_ENV=prod ./%s/worker\n", cfg.Build.Output)
	fmt.Println()
	return nil
}
