// internal/snapshot/snapshot.go
package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"repo-radar/internal/model"
)

// header is the stable column order of every snapshot file. The differ and
// the publisher both key on full_name.
var header = []string{
	"org",
	"name",
	"full_name",
	"homepage",
	"description",
	"language",
	"created_at",
	"updated_at",
	"pushed_at",
	"fork",
	"stargazers_count",
	"watchers_count",
	"forks_count",
	"open_issues_count",
	"license",
	"topics",
}

// Write persists a snapshot table as CSV at path.
func Write(path string, repos []model.Repository) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range repos {
		row, err := toRow(r)
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.FullName, err)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// Read loads a snapshot table from path. A missing file surfaces as an
// fs.ErrNotExist error so callers can distinguish first runs.
func Read(path string) ([]model.Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse snapshot %s: no header row", path)
	}
	if len(rows[0]) != len(header) {
		return nil, fmt.Errorf("parse snapshot %s: expected %d columns, got %d", path, len(header), len(rows[0]))
	}

	repos := make([]model.Repository, 0, len(rows)-1)
	for i, row := range rows[1:] {
		r, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot %s row %d: %w", path, i+2, err)
		}
		repos = append(repos, r)
	}
	return repos, nil
}

// Diff returns the rows of current whose full_name key does not appear in
// previous. It is a pure set membership test: renames, deletions and
// mutations of existing repositories are invisible to it.
func Diff(current, previous []model.Repository) []model.Repository {
	known := make(map[string]bool, len(previous))
	for _, r := range previous {
		known[r.FullName] = true
	}

	var added []model.Repository
	for _, r := range current {
		if !known[r.FullName] {
			added = append(added, r)
		}
	}
	return added
}

func toRow(r model.Repository) ([]string, error) {
	topics, err := json.Marshal(r.Topics)
	if err != nil {
		return nil, err
	}

	return []string{
		r.Org,
		r.Name,
		r.FullName,
		optToCell(r.Homepage),
		optToCell(r.Description),
		optToCell(r.Language),
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.UpdatedAt.UTC().Format(time.RFC3339),
		r.PushedAt.UTC().Format(time.RFC3339),
		strconv.FormatBool(r.Fork),
		strconv.Itoa(r.StargazersCount),
		strconv.Itoa(r.WatchersCount),
		strconv.Itoa(r.ForksCount),
		strconv.Itoa(r.OpenIssuesCount),
		optToCell(r.License),
		string(topics),
	}, nil
}

func fromRow(row []string) (model.Repository, error) {
	if len(row) != len(header) {
		return model.Repository{}, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}

	createdAt, err := time.Parse(time.RFC3339, row[6])
	if err != nil {
		return model.Repository{}, err
	}
	updatedAt, err := time.Parse(time.RFC3339, row[7])
	if err != nil {
		return model.Repository{}, err
	}
	pushedAt, err := time.Parse(time.RFC3339, row[8])
	if err != nil {
		return model.Repository{}, err
	}
	fork, err := strconv.ParseBool(row[9])
	if err != nil {
		return model.Repository{}, err
	}

	counts := make([]int, 4)
	for i, cell := range row[10:14] {
		counts[i], err = strconv.Atoi(cell)
		if err != nil {
			return model.Repository{}, err
		}
	}

	var topics []string
	if row[15] != "" {
		if err := json.Unmarshal([]byte(row[15]), &topics); err != nil {
			return model.Repository{}, err
		}
	}

	return model.Repository{
		Org:             row[0],
		Name:            row[1],
		FullName:        row[2],
		Homepage:        cellToOpt(row[3]),
		Description:     cellToOpt(row[4]),
		Language:        cellToOpt(row[5]),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
		PushedAt:        pushedAt,
		Fork:            fork,
		StargazersCount: counts[0],
		WatchersCount:   counts[1],
		ForksCount:      counts[2],
		OpenIssuesCount: counts[3],
		License:         cellToOpt(row[14]),
		Topics:          topics,
	}, nil
}

// optToCell renders an optional string; nil and "" both become an empty cell.
func optToCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// cellToOpt parses an optional cell; an empty cell means absent.
func cellToOpt(cell string) *string {
	if cell == "" {
		return nil
	}
	return &cell
}
