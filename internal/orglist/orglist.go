// internal/orglist/orglist.go
package orglist

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	custom_errors "repo-radar/internal/errors"
)

// handleColumn is the reference CSV column holding GitHub profile URLs.
const handleColumn = "Github"

// Fetcher downloads the curated organization list and derives the set of
// GitHub handles to collect.
type Fetcher struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher for the reference CSV at url.
func NewFetcher(url string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handles fetches the reference CSV and returns the normalized, deduplicated
// handle list in row order. Any row whose profile URL yields an empty handle
// is a hard error; duplicates are logged and resolved by keeping the first
// occurrence.
func (f *Fetcher) Handles(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch reference list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch reference list: unexpected status %d", resp.StatusCode)
	}

	urls, err := profileURLs(csv.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}
	f.logger.Info("Fetched reference list", "url", f.url, "rows", len(urls))

	return Normalize(urls, f.logger)
}

// profileURLs extracts the profile URL column from the reference CSV.
func profileURLs(r *csv.Reader) ([]string, error) {
	r.FieldsPerRecord = -1 // the reference list is hand-maintained

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse reference list: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse reference list: no header row")
	}

	col := -1
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), handleColumn) {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("parse reference list: no %q column", handleColumn)
	}

	var urls []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		urls = append(urls, row[col])
	}
	return urls, nil
}

// Normalize derives handles from profile URLs: the last path segment,
// trimmed and lower-cased. The first occurrence of a duplicate wins.
func Normalize(urls []string, logger *slog.Logger) ([]string, error) {
	seen := make(map[string]bool, len(urls))
	var handles []string
	var dupes []string

	for _, u := range urls {
		h := HandleFromURL(u)
		if h == "" {
			return nil, &custom_errors.ErrEmptyHandle{URL: u}
		}
		if seen[h] {
			dupes = append(dupes, h)
			continue
		}
		seen[h] = true
		handles = append(handles, h)
	}

	if len(dupes) > 0 {
		logger.Warn("Found duplicate handles, keeping first occurrence of each", "handles", dupes)
	}

	return handles, nil
}

// HandleFromURL extracts the handle from a GitHub profile URL: the segment
// after the last slash. A trailing slash therefore yields an empty handle,
// which Normalize rejects.
func HandleFromURL(u string) string {
	if i := strings.LastIndex(u, "/"); i != -1 {
		u = u[i+1:]
	}
	return strings.TrimSpace(strings.ToLower(u))
}
