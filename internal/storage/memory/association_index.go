package memory

import (
	"context"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/google/uuid"
)

type AssociationIndex struct {
	s *Store
}

func (i *AssociationIndex) Exists(_ context.Context, userID, contentID uuid.UUID) (bool, error) {
	i.s.mu.RLock()
	defer i.s.mu.RUnlock()

	_, ok := i.s.links[linkKey{userID: userID, contentID: contentID}]
	return ok, nil
}

func (i *AssociationIndex) Create(_ context.Context, userID, contentID uuid.UUID) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	// Both ends must exist, matching the pg backend's foreign keys.
	if _, ok := i.s.users[userID]; !ok {
		return apperr.ErrNotFound
	}
	if _, ok := i.s.contents[contentID]; !ok {
		return apperr.ErrNotFound
	}

	i.s.links[linkKey{userID: userID, contentID: contentID}] = struct{}{}
	return nil
}
