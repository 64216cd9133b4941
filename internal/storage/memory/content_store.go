package memory

import (
	"context"
	"time"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/bselic/newsbrief/internal/domain"
	"github.com/google/uuid"
)

type ContentStore struct {
	s *Store
}

func (c *ContentStore) FindByURL(_ context.Context, url string) (*domain.NewsContent, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	id, ok := c.s.byURL[url]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	item := c.s.contents[id]
	return &item, nil
}

func (c *ContentStore) Get(_ context.Context, id uuid.UUID) (*domain.NewsContent, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	item, ok := c.s.contents[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &item, nil
}

func (c *ContentStore) Insert(_ context.Context, item *domain.NewsContent) (*domain.NewsContent, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if id, ok := c.s.byURL[item.URL]; ok {
		existing := c.s.contents[id]
		return &existing, nil
	}

	stored := *item
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	c.s.contents[stored.ID] = stored
	c.s.byURL[stored.URL] = stored.ID
	return &stored, nil
}

func (c *ContentStore) UpdateSummary(_ context.Context, id uuid.UUID, summary string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	item, ok := c.s.contents[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if item.Summary != "" {
		// First completed summary wins.
		return nil
	}
	item.Summary = summary
	c.s.contents[id] = item
	return nil
}

func (c *ContentStore) List(_ context.Context, offset, limit int) ([]domain.NewsContent, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	items := make([]domain.NewsContent, 0, len(c.s.contents))
	for _, item := range c.s.contents {
		items = append(items, item)
	}
	sortContents(items)
	return pageOf(items, offset, limit), nil
}
