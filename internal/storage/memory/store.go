// Package memory holds an in-process implementation of the storage
// contracts, used by tests and by STORAGE_TYPE=in_mem deployments.
package memory

import (
	"sort"
	"sync"

	"github.com/bselic/newsbrief/internal/domain"
	"github.com/google/uuid"
)

type linkKey struct {
	userID    uuid.UUID
	contentID uuid.UUID
}

// Store is the shared backing state. One mutex guards all three tables; the
// dataset is small enough that finer locking buys nothing. The per-concern
// views returned by Contents, Links and Users satisfy the storage contracts.
type Store struct {
	mu       sync.RWMutex
	contents map[uuid.UUID]domain.NewsContent
	byURL    map[string]uuid.UUID
	users    map[uuid.UUID]domain.User
	byEmail  map[string]uuid.UUID
	links    map[linkKey]struct{}
}

func NewStore() *Store {
	return &Store{
		contents: make(map[uuid.UUID]domain.NewsContent),
		byURL:    make(map[string]uuid.UUID),
		users:    make(map[uuid.UUID]domain.User),
		byEmail:  make(map[string]uuid.UUID),
		links:    make(map[linkKey]struct{}),
	}
}

func (s *Store) Contents() *ContentStore {
	return &ContentStore{s: s}
}

func (s *Store) Links() *AssociationIndex {
	return &AssociationIndex{s: s}
}

func (s *Store) Users() *UserDirectory {
	return &UserDirectory{s: s}
}

func sortContents(items []domain.NewsContent) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID.String() < items[j].ID.String()
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

func pageOf[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
