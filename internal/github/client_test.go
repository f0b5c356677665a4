// internal/github/client_test.go
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient creates a httptest server and a github client pointing to it.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	// We can pass a nil token because we are not authenticating to the real GitHub.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := NewClient("", logger)

	// Override the client's internal http client to point to our test server.
	testClient, err := github.NewClient(server.Client()).WithEnterpriseURLs(server.URL, server.URL)
	require.NoError(t, err)
	client.gh = testClient

	return client, server
}

func notFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintln(w, `{"message": "Not Found"}`)
}

func TestClient_ListByHandle(t *testing.T) {
	t.Run("resolves an organization", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.True(t, strings.HasSuffix(r.URL.Path, "/orgs/acme/repos"), "unexpected path %s", r.URL.Path)
			fmt.Fprintln(w, `[{"id": 1, "name": "widgets", "full_name": "acme/widgets", "stargazers_count": 7, "fork": true, "topics": ["news", "data"]}]`)
		})
		client, _ := setupTestClient(t, handler)

		repos, err := client.ListByHandle(context.Background(), "acme")

		require.NoError(t, err)
		require.Len(t, repos, 1)
		assert.Equal(t, "acme", repos[0].Org)
		assert.Equal(t, "widgets", repos[0].Name)
		assert.Equal(t, "acme/widgets", repos[0].FullName)
		assert.Equal(t, 7, repos[0].StargazersCount)
		assert.True(t, repos[0].Fork)
		assert.Equal(t, []string{"news", "data"}, repos[0].Topics)
		assert.Nil(t, repos[0].Description)
	})

	t.Run("falls back to a user on org 404", func(t *testing.T) {
		var orgCalls, userCalls int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, "/orgs/jdoe/repos"):
				atomic.AddInt32(&orgCalls, 1)
				notFound(w)
			case strings.HasSuffix(r.URL.Path, "/users/jdoe/repos"):
				atomic.AddInt32(&userCalls, 1)
				fmt.Fprintln(w, `[{"id": 2, "name": "dotfiles", "full_name": "jdoe/dotfiles"}]`)
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})
		client, _ := setupTestClient(t, handler)

		repos, err := client.ListByHandle(context.Background(), "jdoe")

		require.NoError(t, err)
		require.Len(t, repos, 1)
		assert.Equal(t, "jdoe/dotfiles", repos[0].FullName)
		assert.Equal(t, int32(1), atomic.LoadInt32(&orgCalls))
		assert.Equal(t, int32(1), atomic.LoadInt32(&userCalls))
	})

	t.Run("returns empty list when handle matches nothing", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			notFound(w)
		})
		client, _ := setupTestClient(t, handler)

		repos, err := client.ListByHandle(context.Background(), "ghost")

		require.NoError(t, err)
		assert.Empty(t, repos)
	})

	t.Run("propagates non-404 errors", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		client, _ := setupTestClient(t, handler)

		_, err := client.ListByHandle(context.Background(), "acme")

		require.Error(t, err)
		var ghErr *github.ErrorResponse
		assert.ErrorAs(t, err, &ghErr)
		assert.Equal(t, http.StatusInternalServerError, ghErr.Response.StatusCode)
	})

	t.Run("follows pagination", func(t *testing.T) {
		server := httptest.NewUnstartedServer(nil)
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.True(t, strings.HasSuffix(r.URL.Path, "/orgs/acme/repos"))
			if r.URL.Query().Get("page") == "" {
				w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page=2>; rel="next"`, r.Host, r.URL.Path))
				fmt.Fprintln(w, `[{"id": 1, "name": "a", "full_name": "acme/a"}]`)
				return
			}
			fmt.Fprintln(w, `[{"id": 2, "name": "b", "full_name": "acme/b"}]`)
		})
		server.Start()
		t.Cleanup(server.Close)

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		client := NewClient("", logger)
		testClient, err := github.NewClient(server.Client()).WithEnterpriseURLs(server.URL, server.URL)
		require.NoError(t, err)
		client.gh = testClient

		repos, err := client.ListByHandle(context.Background(), "acme")

		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, "acme/a", repos[0].FullName)
		assert.Equal(t, "acme/b", repos[1].FullName)
	})
}

func TestToRepository(t *testing.T) {
	desc := "Data journalism tools"
	lang := "Go"
	licName := "MIT License"
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	r := &github.Repository{
		Name:            github.String("widgets"),
		FullName:        github.String("acme/widgets"),
		Description:     &desc,
		Language:        &lang,
		CreatedAt:       &github.Timestamp{Time: created},
		License:         &github.License{Name: &licName},
		StargazersCount: github.Int(3),
	}

	repo := toRepository("acme", r)

	assert.Equal(t, "acme", repo.Org)
	assert.Equal(t, "acme/widgets", repo.FullName)
	require.NotNil(t, repo.Description)
	assert.Equal(t, desc, *repo.Description)
	require.NotNil(t, repo.License)
	assert.Equal(t, licName, *repo.License)
	assert.Equal(t, created, repo.CreatedAt)
	assert.Nil(t, repo.Homepage)
}
