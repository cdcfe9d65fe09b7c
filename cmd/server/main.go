package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"video-gallery/pkg/cachedstats"
	"video-gallery/pkg/config"
	"video-gallery/pkg/handlers"
	"video-gallery/pkg/logging"
	"video-gallery/pkg/metrics"
	"video-gallery/pkg/server"
	"video-gallery/pkg/stats"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to the TOML config file")
	pflag.Parse()
	if *configPath == "" && pflag.NArg() > 0 {
		*configPath = pflag.Arg(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var (
		reg *prometheus.Registry
		m   *metrics.Gallery
	)
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	cache := cachedstats.New(func() stats.Library {
		return stats.Collect(cfg.FSPath, loc)
	})
	cache.RunUpdater(ctx, cfg.StatsInterval)

	h, err := handlers.New(cfg, logger, m, cache)
	if err != nil {
		return err
	}

	logger.Info("configuration loaded",
		zap.String("fs_path", cfg.FSPath),
		zap.String("uri_path", cfg.URIPath),
		zap.Int("video_count", cfg.VideoCount),
		zap.Bool("sort_descending", cfg.SortDescending),
		zap.Bool("parse_timestamps", cfg.ParseTimestamps),
		zap.String("static_cache", cfg.StaticCacheControl()),
	)

	var gatherer prometheus.Gatherer
	if reg != nil {
		gatherer = reg
	}
	return server.Run(ctx, cfg, server.SetupRouter(cfg, h, logger, gatherer), logger)
}
