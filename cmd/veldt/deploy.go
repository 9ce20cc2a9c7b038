package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/veldt-dev/veldt/internal/config"
	"github.com/veldt-dev/veldt/internal/errors"
	"github.com/veldt-dev/veldt/pkg/sitekv"
)

func deployCmd() *cobra.Command {
	var (
		bucket string
		region string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the site to its bucket",
		Long: `Upload the fingerprinted build output and asset manifest to the
configured S3-compatible bucket. The worker serves static assets out
of the same bucket at runtime.

Credentials come from the standard AWS environment (env vars, shared
config, instance roles).

Examples:
  veldt deploy
  veldt deploy --bucket=my-site-assets --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(bucket, region)
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Target bucket (default from veldt.json)")
	cmd.Flags().StringVarP(&region, "region", "r", "", "Bucket region (default from veldt.json)")

	return cmd
}

func runDeploy(bucket, region string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if bucket != "" {
		cfg.Deploy.Bucket = bucket
	}
	if region != "" {
		cfg.Deploy.Region = region
	}
	if cfg.Deploy.Bucket == "" {
		return errors.New("E162")
	}

	pkgDir := cfg.PkgPath()
	if _, err := os.Stat(pkgDir); os.IsNotExist(err) {
		return errors.New("E160")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Deploy.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Deploy.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return errors.New("E161").Wrap(err)
	}

	store := sitekv.NewS3Store(s3.NewFromConfig(awsCfg), cfg.Deploy.Bucket, cfg.Deploy.Prefix)

	fmt.Println("  Deploying to", cfg.Deploy.Bucket)
	fmt.Println()

	uploaded := 0
	err = filepath.Walk(pkgDir, func(path string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		rel, err := filepath.Rel(pkgDir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if err := store.Put(ctx, key, data); err != nil {
			return errors.New("E161").
				WithDetail("Failed to upload " + key).
				Wrap(err)
		}
		info("%s (%s)", key, formatBytes(fi.Size()))
		uploaded++
		return nil
	})
	if err != nil {
		return err
	}

	// The manifest rides along so the worker can resolve logical
	// names against what was actually uploaded.
	manifestData, err := os.ReadFile(cfg.ManifestPath())
	if err != nil {
		return errors.New("E160").
			WithDetail("manifest.json is missing from the build output").
			WithSuggestion("Run 'veldt build' before deploying")
	}
	if err := store.Put(ctx, "manifest.json", manifestData); err != nil {
		return errors.New("E161").Wrap(err)
	}
	uploaded++

	fmt.Println()
	success("Deployed %d objects to %s", uploaded, cfg.Deploy.Bucket)
	return nil
}
