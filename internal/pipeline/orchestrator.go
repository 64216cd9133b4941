// Package pipeline coordinates content acquisition and streaming
// summarization: cache-check-then-fetch for articles, link-or-skip for user
// associations, and stream-then-finalize for summaries.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/bselic/newsbrief/internal/domain"
	"github.com/bselic/newsbrief/internal/extractor"
	"github.com/bselic/newsbrief/internal/storage"
	"github.com/bselic/newsbrief/internal/summarizer"
	"github.com/google/uuid"
)

// ErrStreamConsumed is returned when Run is called on an already-drained
// stream; generation is not restartable.
var ErrStreamConsumed = errors.New("summary stream already consumed")

type Orchestrator struct {
	contents  storage.ContentStore
	links     storage.AssociationIndex
	users     storage.UserDirectory
	extractor extractor.Extractor
	generator summarizer.Generator
	prompts   summarizer.Prompts
}

func NewOrchestrator(
	contents storage.ContentStore,
	links storage.AssociationIndex,
	users storage.UserDirectory,
	ext extractor.Extractor,
	gen summarizer.Generator,
	prompts summarizer.Prompts,
) *Orchestrator {
	return &Orchestrator{
		contents:  contents,
		links:     links,
		users:     users,
		extractor: ext,
		generator: gen,
		prompts:   prompts,
	}
}

// ResolveContent returns the stored item for the URL if one exists,
// otherwise extracts the article and builds a fresh, unpersisted item with
// no id and no summary. Persistence is deferred to AttachContentToUser so
// that content is only stored once a requesting user is proven to want it.
func (o *Orchestrator) ResolveContent(ctx context.Context, url string) (*domain.NewsContent, error) {
	existing, err := o.contents.FindByURL(ctx, url)
	if err == nil {
		slog.Info("Content cache hit", "url", url)
		return existing, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up content by url: %w", err)
	}

	extracted, err := o.extractor.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	return &domain.NewsContent{
		Title:           extracted.Title,
		Authors:         extracted.Authors,
		PublicationDate: extracted.PublicationDate,
		Body:            extracted.Body,
		URL:             extracted.URL,
	}, nil
}

// AttachContentToUser persists the item if needed and links it to the user.
// An already-linked pair is a no-op that returns the item unchanged. At most
// one content insert and one association insert happen per call.
func (o *Orchestrator) AttachContentToUser(ctx context.Context, userID uuid.UUID, item *domain.NewsContent) (*domain.NewsContent, error) {
	ok, err := o.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return nil, apperr.ErrAccessDenied
	}

	// A fresh item has no id yet, so the association check is necessarily a
	// miss for it.
	if item.ID != uuid.Nil {
		linked, err := o.links.Exists(ctx, userID, item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check association: %w", err)
		}
		if linked {
			slog.Info("Association cache hit", "user", userID, "url", item.URL)
			return item, nil
		}
	}

	stored, err := o.contents.Insert(ctx, item)
	if err != nil {
		return nil, err
	}

	if err := o.links.Create(ctx, userID, stored.ID); err != nil {
		return nil, err
	}

	return stored, nil
}

// AddContentForUser is the combined contract behind the URL-ingestion
// endpoint: resolve then attach.
func (o *Orchestrator) AddContentForUser(ctx context.Context, userID uuid.UUID, url string) (*domain.NewsContent, error) {
	item, err := o.ResolveContent(ctx, url)
	if err != nil {
		return nil, err
	}
	return o.AttachContentToUser(ctx, userID, item)
}

// StreamURLSummary starts a transient summarization of a URL. Nothing is
// persisted; the stream has no finalizer.
func (o *Orchestrator) StreamURLSummary(ctx context.Context, userID uuid.UUID, url string) (*SummaryStream, error) {
	ok, err := o.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return nil, apperr.ErrAccessDenied
	}

	chunks := o.generator.Generate(ctx, o.prompts.ForURL(url))
	return newSummaryStream(chunks, nil), nil
}

// StreamContentSummary starts a durable summarization of a stored item the
// user has added. The summary field is deliberately not consulted before
// generating: an already-summarized item replays a full fresh stream, and
// only finalization is guarded. Changing that would change what consumers
// observe, so the asymmetry stays.
func (o *Orchestrator) StreamContentSummary(ctx context.Context, userID, contentID uuid.UUID) (*SummaryStream, error) {
	linked, err := o.links.Exists(ctx, userID, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check association: %w", err)
	}
	if !linked {
		return nil, apperr.ErrNotFound
	}

	item, err := o.contents.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}

	chunks := o.generator.Generate(ctx, o.prompts.ForContent(item.Body))
	return newSummaryStream(chunks, func(ctx context.Context, fullText string) error {
		return o.finalizeSummary(ctx, contentID, fullText)
	}), nil
}

// finalizeSummary writes the completed text unless a summary is already
// present. The read-then-write has no transactional isolation: two streams
// finishing together can both see an empty summary, which is why the store's
// UpdateSummary itself refuses to overwrite. First completed summary wins;
// the duplicate is a no-op.
func (o *Orchestrator) finalizeSummary(ctx context.Context, contentID uuid.UUID, fullText string) error {
	item, err := o.contents.Get(ctx, contentID)
	if err != nil {
		return err
	}
	if item.HasSummary() {
		slog.Info("Summary cache hit", "content", contentID)
		return nil
	}

	return o.contents.UpdateSummary(ctx, contentID, fullText)
}
