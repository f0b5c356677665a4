// cmd/collect/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"repo-radar/internal/collector"
	"repo-radar/internal/config"
	"repo-radar/internal/github"
	"repo-radar/internal/orglist"
	"repo-radar/internal/snapshot"
)

var cli struct {
	Force  bool   `short:"f" help:"Force the download of the data, ignoring per-handle caches."`
	Wait   int    `short:"w" default:"1" help:"Number of seconds to wait between requests."`
	Output string `short:"o" default:"repos.csv" help:"Path of the consolidated snapshot to write."`
}

func main() {
	kong.Parse(&cli, kong.Description("Download the repositories of every watched organization."))
	if err := run(); err != nil {
		slog.Error("Collection failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateCollector(); err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel, logLevel)

	ctx := context.Background()

	// 3. Fetch the reference list; failure here aborts before any API call.
	handles, err := orglist.NewFetcher(cfg.OrgsCSVURL, logger).Handles(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch organization list: %w", err)
	}
	logger.Info("Collecting repositories", "handles", len(handles))

	// 4. Collect every handle's repositories, cache-first.
	ghClient := github.NewClient(cfg.GithubToken, logger)
	c := collector.NewCollector(ghClient, cfg.CacheDir, time.Duration(cli.Wait)*time.Second, logger)

	repos, err := c.Run(ctx, handles, cli.Force)
	if err != nil {
		return err
	}

	// 5. Persist the consolidated snapshot.
	if err := snapshot.Write(cli.Output, repos); err != nil {
		return err
	}
	logger.Info("Snapshot written", "path", cli.Output, "repos", len(repos))

	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
