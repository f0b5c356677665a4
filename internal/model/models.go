// internal/model/models.go
package model

import "time"

// Repository represents the metadata of a GitHub repository as captured in a
// snapshot. FullName ("org/name") is the globally unique key.
type Repository struct {
	Org             string    `json:"org"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Homepage        *string   `json:"homepage"`
	Description     *string   `json:"description"`
	Language        *string   `json:"language"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	PushedAt        time.Time `json:"pushed_at"`
	Fork            bool      `json:"fork"`
	StargazersCount int       `json:"stargazers_count"`
	WatchersCount   int       `json:"watchers_count"`
	ForksCount      int       `json:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	License         *string   `json:"license"`
	Topics          []string  `json:"topics"`
}

// URL returns the repository's public github.com address.
func (r Repository) URL() string {
	return "https://github.com/" + r.FullName
}
