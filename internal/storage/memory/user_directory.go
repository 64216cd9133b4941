package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/bselic/newsbrief/internal/domain"
	"github.com/google/uuid"
)

type UserDirectory struct {
	s *Store
}

func (d *UserDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	_, ok := d.s.users[id]
	return ok, nil
}

func (d *UserDirectory) Get(_ context.Context, id uuid.UUID) (*domain.User, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	u, ok := d.s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &u, nil
}

func (d *UserDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	id, ok := d.s.byEmail[email]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	u := d.s.users[id]
	return &u, nil
}

func (d *UserDirectory) List(_ context.Context, offset, limit int) ([]domain.User, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	users := make([]domain.User, 0, len(d.s.users))
	for _, u := range d.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() < users[j].ID.String()
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return pageOf(users, offset, limit), nil
}

func (d *UserDirectory) History(_ context.Context, id uuid.UUID) ([]domain.NewsContent, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	var items []domain.NewsContent
	for key := range d.s.links {
		if key.userID != id {
			continue
		}
		if item, ok := d.s.contents[key.contentID]; ok {
			items = append(items, item)
		}
	}
	sortContents(items)
	return items, nil
}

func (d *UserDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if _, ok := d.s.byEmail[user.Email]; ok {
		return nil, apperr.ErrAlreadyExists
	}

	stored := *user
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	d.s.users[stored.ID] = stored
	d.s.byEmail[stored.Email] = stored.ID
	return &stored, nil
}

func (d *UserDirectory) Update(_ context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	u, ok := d.s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	if upd.Email != nil && *upd.Email != u.Email {
		if _, taken := d.s.byEmail[*upd.Email]; taken {
			return nil, apperr.ErrAlreadyExists
		}
		delete(d.s.byEmail, u.Email)
		u.Email = *upd.Email
		d.s.byEmail[u.Email] = id
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}

	d.s.users[id] = u
	return &u, nil
}

func (d *UserDirectory) Delete(_ context.Context, id uuid.UUID) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	u, ok := d.s.users[id]
	if !ok {
		return apperr.ErrNotFound
	}

	delete(d.s.users, id)
	delete(d.s.byEmail, u.Email)
	for key := range d.s.links {
		if key.userID == id {
			delete(d.s.links, key)
		}
	}
	return nil
}
