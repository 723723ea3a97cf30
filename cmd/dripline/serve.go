package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/whitmore/dripline/internal/analyze"
	"github.com/whitmore/dripline/internal/api"
	"github.com/whitmore/dripline/internal/config"
	"github.com/whitmore/dripline/internal/insight"
	"github.com/whitmore/dripline/internal/llm"
	"github.com/whitmore/dripline/internal/llm/claude"
	"github.com/whitmore/dripline/internal/llm/openai"
	"github.com/whitmore/dripline/internal/logger"
	"github.com/whitmore/dripline/internal/metrics"
	"github.com/whitmore/dripline/internal/provider"
	"github.com/whitmore/dripline/internal/provider/yahoo"
	"github.com/whitmore/dripline/internal/storage/archive"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dripline server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// buildProvider assembles the history provider chain from config.
func buildProvider(cfg *config.Config, log *zap.Logger) (provider.HistoryProvider, error) {
	var p provider.HistoryProvider = yahoo.NewWithTimeout(
		time.Duration(cfg.Provider.TimeoutSeconds) * time.Second)

	if !cfg.Archive.Enabled {
		return p, nil
	}

	var store archive.Storage
	var err error
	switch cfg.Archive.Type {
	case "s3":
		store, err = archive.NewS3(archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		})
	default:
		store, err = archive.NewLocalFS(cfg.Archive.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("creating archive storage: %w", err)
	}

	log.Info("history archive enabled", zap.String("type", cfg.Archive.Type))
	return provider.NewCached(p, store, log), nil
}

// buildInsight assembles the optional LLM narrative generator.
func buildInsight(cfg *config.Config, log *zap.Logger) (*insight.Generator, error) {
	var lp llm.Provider
	var err error

	switch cfg.Insight.Provider {
	case "":
		return nil, nil
	case "claude":
		lp, err = claude.New(cfg.Insight.Claude.APIKey, cfg.Insight.Claude.Model)
	case "openai":
		lp, err = openai.New(cfg.Insight.OpenAI.APIKey, cfg.Insight.OpenAI.Model)
	default:
		return nil, fmt.Errorf("unknown insight provider %q", cfg.Insight.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("creating insight provider: %w", err)
	}

	log.Info("insight generation enabled", zap.String("provider", lp.Name()))
	return insight.New(lp, log), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	log.Info("starting dripline server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	p, err := buildProvider(cfg, log)
	if err != nil {
		return err
	}

	analyzer := analyze.New(p, log)

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		analyzer.SetMetrics(reg)
	}

	gen, err := buildInsight(cfg, log)
	if err != nil {
		return err
	}
	if gen != nil {
		analyzer.SetInsight(gen)
	}

	server := api.NewServer(cfg, analyzer, reg, Version, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down dripline server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
