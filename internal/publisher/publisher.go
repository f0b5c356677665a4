// internal/publisher/publisher.go
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"repo-radar/internal/bluesky"
	"repo-radar/internal/model"
)

// Poster is the part of the Bluesky client the publisher depends on.
type Poster interface {
	CreatePost(ctx context.Context, record bluesky.PostRecord) (string, error)
}

// Translator translates free text into a target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Result aggregates the outcome of one publishing run.
type Result struct {
	Succeeded int
	Failed    int
}

// Publisher builds and submits one announcement post per new repository.
type Publisher struct {
	poster     Poster
	translator Translator // nil when no translation key is configured
	targetLang string
	logger     *slog.Logger
	now        func() time.Time
}

// NewPublisher creates a Publisher. translator may be nil, in which case
// descriptions are posted untranslated.
func NewPublisher(poster Poster, translator Translator, targetLang string, logger *slog.Logger) *Publisher {
	return &Publisher{
		poster:     poster,
		translator: translator,
		targetLang: targetLang,
		logger:     logger,
		now:        time.Now,
	}
}

// Record builds the post record for one repository, translating the
// description when a translator is configured. Translation fails open: any
// error falls back to the original text.
func (p *Publisher) Record(ctx context.Context, repo model.Repository) bluesky.PostRecord {
	var description string
	if repo.Description != nil {
		description = p.translate(ctx, *repo.Description)
	}
	return bluesky.BuildPost(repo.Org, repo.FullName, repo.URL(), description, p.now())
}

// Publish submits one post per repository through an authenticated poster.
// Submission failures are counted, not propagated, so one bad post never
// blocks the rest of the batch.
func (p *Publisher) Publish(ctx context.Context, repos []model.Repository) Result {
	var res Result
	for _, repo := range repos {
		p.logger.Info("Posting", "repo", repo.FullName)
		record := p.Record(ctx, repo)

		uri, err := p.poster.CreatePost(ctx, record)
		if err != nil {
			p.logger.Error("Failed to post", "repo", repo.FullName, "error", err)
			res.Failed++
			continue
		}

		p.logger.Info("Post published", "repo", repo.FullName, "uri", uri)
		res.Succeeded++
	}
	return res
}

// DryRun prints each would-be post without authenticating or submitting.
func (p *Publisher) DryRun(ctx context.Context, repos []model.Repository) {
	for _, repo := range repos {
		record := p.Record(ctx, repo)
		fmt.Printf("Would post:\n%s\n\n", record.Text)
	}
}

func (p *Publisher) translate(ctx context.Context, text string) string {
	if text == "" {
		return text
	}
	if p.translator == nil {
		p.logger.Warn("Translation key not set, posting original text")
		return text
	}

	translated, err := p.translator.Translate(ctx, text, p.targetLang)
	if err != nil {
		p.logger.Warn("Translation failed, posting original text", "error", err)
		return text
	}
	return translated
}
