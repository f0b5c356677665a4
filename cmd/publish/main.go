// cmd/publish/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"repo-radar/internal/bluesky"
	"repo-radar/internal/config"
	"repo-radar/internal/deepl"
	"repo-radar/internal/publisher"
	"repo-radar/internal/snapshot"
)

var cli struct {
	NewReposFile string `short:"n" default:"new_repos.csv" help:"Path to CSV file containing new repos."`
	DryRun       bool   `help:"Don't actually post, just show what would be posted."`
}

func main() {
	kong.Parse(&cli, kong.Description("Announce new repositories on Bluesky."))
	if err := run(); err != nil {
		slog.Error("Publishing failed", "error", err)
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
	setLogLevel(cfg.LogLevel, logLevel)

	// 3. Read the differ's output; an absent or empty table is a clean no-op.
	repos, err := snapshot.Read(cli.NewReposFile)
	if os.IsNotExist(err) {
		logger.Info("No new repos file found, nothing to post", "path", cli.NewReposFile)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read new repos file: %w", err)
	}
	if len(repos) == 0 {
		logger.Info("No new repositories to post")
		return nil
	}
	logger.Info("Found new repos to post", "count", len(repos))

	var translator publisher.Translator
	if cfg.DeepLAPIKey != "" {
		translator = deepl.NewClient(cfg.DeepLAPIURL, cfg.DeepLAPIKey)
	}

	ctx := context.Background()
	client := bluesky.NewClient(cfg.BlueskyPDS)
	pub := publisher.NewPublisher(client, translator, cfg.TargetLang, logger)

	if cli.DryRun {
		logger.Info("Dry run mode, not actually posting")
		pub.DryRun(ctx, repos)
		return nil
	}

	// 4. Authenticate; failure here aborts before any posting attempt.
	if err := cfg.ValidatePublisher(); err != nil {
		return err
	}
	if err := client.Login(ctx, cfg.BlueskyUsername, cfg.BlueskyPassword); err != nil {
		return fmt.Errorf("failed to authenticate to Bluesky: %w", err)
	}
	logger.Info("Authenticated to Bluesky", "did", client.DID())

	// 5. Post each repository independently and report the aggregate.
	res := pub.Publish(ctx, repos)
	logger.Info("Publishing finished", "succeeded", res.Succeeded, "failed", res.Failed, "total", len(repos))

	if res.Failed > 0 {
		return fmt.Errorf("%d of %d posts failed", res.Failed, len(repos))
	}
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
