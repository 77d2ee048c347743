package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/notedown/internal/assets"
	"github.com/xxxsen/notedown/internal/config"
	"github.com/xxxsen/notedown/internal/exporter"
	"github.com/xxxsen/notedown/internal/notion"
	"github.com/xxxsen/notedown/internal/preview"
	"github.com/xxxsen/notedown/internal/render"
	"github.com/xxxsen/notedown/internal/schedule"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "notedown",
		Short: "export Notion pages to markdown articles with a metadata index",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to config.json (optional, env vars override)")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "run one full export",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			runner, err := buildRunner(cfg)
			if err != nil {
				return err
			}
			return runner.Run(cmd.Context())
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "re-export on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			runner, err := buildRunner(cfg)
			if err != nil {
				return err
			}
			scheduler := schedule.NewCronScheduler()
			if err := scheduler.AddJob(runner, cfg.Schedule); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			scheduler.Start(ctx)
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve exported articles locally for preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			initLogger(cfg)
			server := preview.NewServer(cfg.OutputDir, cfg.ImagesDir, cfg.HTMLPreviewDir, cfg.MetadataFile)
			logutil.GetLogger(context.Background()).Info("preview server listening", zap.String("addr", cfg.ListenAddr))
			return server.Run(cfg.ListenAddr)
		},
	}

	rootCmd.AddCommand(exportCmd, watchCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	initLogger(cfg)
	return cfg, nil
}

func initLogger(cfg *config.Config) {
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
}

func buildRunner(cfg *config.Config) (*exporter.Runner, error) {
	client := notion.New(cfg.Token, notion.WithVersion(cfg.NotionVersion))

	var mirror assets.Store
	if cfg.AssetMirror != nil {
		store, err := assets.NewS3Mirror(cfg.AssetMirror)
		if err != nil {
			return nil, err
		}
		mirror = store
	}
	materializer := assets.NewMaterializer(assets.NewLocalStore(cfg.ImagesDir), mirror, cfg.Token)

	renderer := render.NewRenderer(client.ListAllChildren, materializer)
	pageExporter := exporter.New(client, renderer, cfg.OutputDir)
	locator := exporter.NewLocator(client, cfg.DatabaseID, cfg.PageIDs)
	return exporter.NewRunner(locator, pageExporter, cfg.MetadataFile, cfg.HTMLPreviewDir), nil
}
