// internal/bluesky/post.go
package bluesky

import (
	"fmt"
	"strings"
	"time"
)

const (
	postCollection = "app.bsky.feed.post"
	linkFacetType  = "app.bsky.richtext.facet#link"

	// maxPostChars is the Bluesky post length limit in characters.
	maxPostChars = 300
	ellipsis     = "..."
)

// PostRecord is the record body for app.bsky.feed.post.
type PostRecord struct {
	Type      string  `json:"$type"`
	Text      string  `json:"text"`
	Facets    []Facet `json:"facets,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// Facet is a rich-text annotation locating a feature within the post text.
// Index positions are byte offsets into the UTF-8 encoded text.
type Facet struct {
	Index    ByteSlice `json:"index"`
	Features []Feature `json:"features"`
}

// ByteSlice is a half-open [ByteStart, ByteEnd) byte range.
type ByteSlice struct {
	ByteStart int `json:"byteStart"`
	ByteEnd   int `json:"byteEnd"`
}

// Feature is a single facet feature; this pipeline only emits links.
type Feature struct {
	Type string `json:"$type"`
	URI  string `json:"uri"`
}

// BuildPost assembles the announcement record for a new repository. The
// description has already been through translation (or its fallback). The
// fixed prefix (org, full name, URL) is never truncated; only the
// description is shortened to keep the whole text within maxPostChars
// characters. The URL facet offsets are computed on UTF-8 bytes, because the
// annotation protocol is byte-indexed and translated text routinely carries
// multi-byte characters ahead of the link.
func BuildPost(org, fullName, repoURL, description string, now time.Time) PostRecord {
	text := composeText(org, fullName, repoURL, description)

	var facets []Facet
	if start := strings.Index(text, repoURL); start != -1 {
		facets = []Facet{{
			Index: ByteSlice{
				ByteStart: start,
				ByteEnd:   start + len(repoURL),
			},
			Features: []Feature{{
				Type: linkFacetType,
				URI:  repoURL,
			}},
		}}
	}

	return PostRecord{
		Type:      postCollection,
		Text:      text,
		Facets:    facets,
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
}

// composeText formats the announcement and enforces the character budget.
func composeText(org, fullName, repoURL, description string) string {
	prefix := fmt.Sprintf("%s har nettopp åpnet repoet %s: %s", org, fullName, repoURL)
	if description == "" {
		return prefix
	}

	text := prefix + "\n\n" + description
	if runeLen(text) <= maxPostChars {
		return text
	}

	base := prefix + "\n\n"
	remaining := maxPostChars - runeLen(base) - runeLen(ellipsis)
	if remaining <= 0 {
		return prefix
	}

	return base + truncateRunes(description, remaining) + ellipsis
}

func runeLen(s string) int {
	return len([]rune(s))
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
