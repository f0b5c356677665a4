// cmd/diff/main.go
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"repo-radar/internal/snapshot"
)

// Exit codes are an automation hook: schedulers chain the publish step on
// exit code 1.
const (
	exitNoNewRepos = 0
	exitNewRepos   = 1
	exitError      = 2
)

var cli struct {
	Previous string `short:"p" default:"repos_previous.csv" help:"Path to previous repos snapshot."`
	Current  string `short:"c" default:"repos.csv" help:"Path to current repos snapshot."`
	Output   string `short:"o" default:"new_repos.csv" help:"Path of the new-repos table to write."`
}

func main() {
	kong.Parse(&cli, kong.Description("Detect new repositories by comparing two snapshots."))
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	previous, err := snapshot.Read(cli.Previous)
	if os.IsNotExist(err) {
		// First run: nothing to compare against.
		logger.Info("No previous snapshot found, nothing to report", "path", cli.Previous)
		return exitNoNewRepos
	}
	if err != nil {
		logger.Error("Failed to read previous snapshot", "path", cli.Previous, "error", err)
		return exitError
	}

	current, err := snapshot.Read(cli.Current)
	if err != nil {
		logger.Error("Failed to read current snapshot", "path", cli.Current, "error", err)
		return exitError
	}

	newRepos := snapshot.Diff(current, previous)
	if len(newRepos) == 0 {
		logger.Info("No new repositories detected")
		return exitNoNewRepos
	}

	fmt.Printf("Found %d new repository(ies):\n", len(newRepos))
	for _, repo := range newRepos {
		fmt.Printf("  - %s\n", repo.FullName)
		if repo.Description != nil && *repo.Description != "" {
			fmt.Printf("    %s\n", *repo.Description)
		}
	}

	if err := snapshot.Write(cli.Output, newRepos); err != nil {
		logger.Error("Failed to write new-repos table", "path", cli.Output, "error", err)
		return exitError
	}
	logger.Info("New repos saved", "path", cli.Output, "count", len(newRepos))

	return exitNewRepos
}
