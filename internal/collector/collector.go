// internal/collector/collector.go
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"repo-radar/internal/model"
)

// RepoLister is the part of the GitHub client the collector depends on.
type RepoLister interface {
	ListByHandle(ctx context.Context, handle string) ([]model.Repository, error)
}

// Collector fetches each handle's repository list, caching per-handle
// results as JSON files so repeated runs skip the API.
type Collector struct {
	lister   RepoLister
	cacheDir string
	wait     time.Duration
	logger   *slog.Logger
}

// NewCollector creates a Collector. wait is the blocking delay inserted
// after every API fetch to stay under rate limits.
func NewCollector(lister RepoLister, cacheDir string, wait time.Duration, logger *slog.Logger) *Collector {
	return &Collector{
		lister:   lister,
		cacheDir: cacheDir,
		wait:     wait,
		logger:   logger,
	}
}

// Run collects repositories for every handle in sequence and returns the
// consolidated table sorted by organization then name.
func (c *Collector) Run(ctx context.Context, handles []string, force bool) ([]model.Repository, error) {
	var all []model.Repository
	for _, handle := range handles {
		repos, err := c.collectHandle(ctx, handle, force)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Org != all[j].Org {
			return all[i].Org < all[j].Org
		}
		return all[i].Name < all[j].Name
	})

	return all, nil
}

// collectHandle returns the cached repository list for a handle, or fetches
// and caches it when no cache file exists or force is set.
func (c *Collector) collectHandle(ctx context.Context, handle string, force bool) ([]model.Repository, error) {
	path := c.cachePath(handle)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	if !force {
		repos, err := readCache(path)
		if err == nil {
			c.logger.Debug("Using cached repository list", "handle", handle, "count", len(repos))
			return repos, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	c.logger.Info("Downloading repository list", "handle", handle)
	repos, err := c.lister.ListByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("list repositories for %s: %w", handle, err)
	}

	if err := writeCache(path, repos); err != nil {
		return nil, err
	}

	// Rate-limit courtesy pause between API fetches.
	time.Sleep(c.wait)

	return repos, nil
}

func (c *Collector) cachePath(handle string) string {
	return filepath.Join(c.cacheDir, handle+".json")
}

func readCache(path string) ([]model.Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var repos []model.Repository
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("parse cache %s: %w", path, err)
	}
	return repos, nil
}

func writeCache(path string, repos []model.Repository) error {
	if repos == nil {
		repos = []model.Repository{}
	}
	data, err := json.MarshalIndent(repos, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache %s: %w", path, err)
	}
	return nil
}
