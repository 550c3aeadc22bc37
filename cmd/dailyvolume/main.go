// Command dailyvolume runs one pass of the daily sports-volume pipeline:
// it pulls trades for the lookback window, aggregates volume by day and
// sport, and upserts one row per day into the analytics database.
//
// Intended to run under cron. Exit code 0 means the run completed, even if
// individual lookups or upserts failed and were logged; exit code 1 means
// missing configuration or an error that aborted the run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rickgao/kalshi-volumes/internal/api"
	"github.com/rickgao/kalshi-volumes/internal/auth"
	"github.com/rickgao/kalshi-volumes/internal/config"
	"github.com/rickgao/kalshi-volumes/internal/database"
	"github.com/rickgao/kalshi-volumes/internal/metadata"
	"github.com/rickgao/kalshi-volumes/internal/pipeline"
	"github.com/rickgao/kalshi-volumes/internal/sink"
	"github.com/rickgao/kalshi-volumes/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/dailyvolume.yaml", "path to config file")
	envPath := flag.String("env", "", "optional .env file to load before config expansion")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(*configPath, *envPath, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, envPath string, logger *slog.Logger) error {
	logger.Info("starting dailyvolume",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
	)

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Pipeline.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	// Parse credentials before touching the network so a bad key is a
	// configuration error.
	var creds *auth.Credentials
	if cfg.API.PrivateKey != "" {
		creds, err = auth.LoadCredentials(cfg.API.KeyID, []byte(cfg.API.PrivateKey), cfg.API.KeyPassphrase)
	} else {
		creds, err = auth.LoadCredentialsFromFile(cfg.API.KeyID, cfg.API.PrivateKeyPath, cfg.API.KeyPassphrase)
	}
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	httpClient, err := api.NewHTTPClient(cfg.API.Timeout, cfg.API.ProxyURL, cfg.API.CABundlePath)
	if err != nil {
		return fmt.Errorf("build http client: %w", err)
	}

	client := api.NewClient(
		cfg.API.RestURL,
		creds,
		api.WithHTTPClient(httpClient),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBaseDelay),
		api.WithPagination(cfg.Pipeline.PageSize, cfg.Pipeline.PageDelay),
		api.WithLogger(logger),
	)

	resolver := metadata.NewResolver(client, metadata.Config{
		TickerBatch:   cfg.Pipeline.TickerBatch,
		EventBatch:    cfg.Pipeline.EventBatch,
		RequestDelay:  cfg.Pipeline.RequestDelay,
		RateLimitWait: cfg.Pipeline.RateLimitWait,
	}, logger)

	writer := sink.NewWriter(pool, logger)

	p := pipeline.New(client, resolver, writer, loc, cfg.Pipeline.LookbackDays, logger)
	return p.Run(ctx)
}
