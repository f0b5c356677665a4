// internal/github/client.go
package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"repo-radar/internal/model"
)

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance.
// The provided token is used to create an authenticated http.Client.
func NewClient(token string, logger *slog.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		gh:     github.NewClient(tc),
		logger: logger,
	}
}

// ListByHandle fetches every repository owned by a handle. The handle is
// first resolved as an organization; on a not-found response it is retried
// as an individual user. If neither exists the result is an empty list and
// a nil error, so one dead handle never aborts a collection run.
func (c *Client) ListByHandle(ctx context.Context, handle string) ([]model.Repository, error) {
	repos, err := c.listByOrg(ctx, handle)
	if isNotFound(err) {
		c.logger.Debug("Handle is not an organization, retrying as user", "handle", handle)
		repos, err = c.listByUser(ctx, handle)
		if isNotFound(err) {
			c.logger.Warn("Handle matches neither an organization nor a user", "handle", handle)
			return nil, nil
		}
	}
	if err != nil {
		return nil, err
	}

	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, toRepository(handle, r))
	}
	return out, nil
}

// listByOrg pages through an organization's repository list.
func (c *Client) listByOrg(ctx context.Context, org string) ([]*github.Repository, error) {
	var all []*github.Repository

	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{
			PerPage: 100, // Max per page
		},
	}

	for {
		c.logger.Debug("Fetching repository page", "org", org, "page", opts.Page)

		repos, resp, err := c.gh.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// listByUser pages through a user's repository list.
func (c *Client) listByUser(ctx context.Context, user string) ([]*github.Repository, error) {
	var all []*github.Repository

	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	for {
		c.logger.Debug("Fetching repository page", "user", user, "page", opts.Page)

		repos, resp, err := c.gh.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// toRepository translates a github.Repository object to our internal model.Repository.
func toRepository(handle string, r *github.Repository) model.Repository {
	var license *string
	if l := r.GetLicense(); l != nil {
		name := l.GetName()
		license = &name
	}

	return model.Repository{
		Org:             handle,
		Name:            r.GetName(),
		FullName:        r.GetFullName(),
		Homepage:        r.Homepage,
		Description:     r.Description,
		Language:        r.Language,
		CreatedAt:       r.GetCreatedAt().Time,
		UpdatedAt:       r.GetUpdatedAt().Time,
		PushedAt:        r.GetPushedAt().Time,
		Fork:            r.GetFork(),
		StargazersCount: r.GetStargazersCount(),
		WatchersCount:   r.GetWatchersCount(),
		ForksCount:      r.GetForksCount(),
		OpenIssuesCount: r.GetOpenIssuesCount(),
		License:         license,
		Topics:          r.Topics,
	}
}

// isNotFound reports whether err is a GitHub 404 response.
func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
