package storage

import (
	"context"

	"github.com/bselic/newsbrief/internal/domain"
	"github.com/google/uuid"
)

// ContentStore persists extracted articles and their summaries. URL is the
// uniqueness key: Insert never creates a second row for a URL it has seen.
type ContentStore interface {
	// FindByURL returns the item with the exact URL, or apperr.ErrNotFound.
	FindByURL(ctx context.Context, url string) (*domain.NewsContent, error)
	// Get returns the item by id, or apperr.ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*domain.NewsContent, error)
	// Insert stores a new item, assigning an id when the item carries none.
	// If a row with the same URL already exists the insert is a no-op and
	// the existing row is returned.
	Insert(ctx context.Context, item *domain.NewsContent) (*domain.NewsContent, error)
	// UpdateSummary sets the summary of an item that has none yet. An item
	// whose summary is already non-empty keeps it; the call is then a no-op.
	UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error
	// List returns stored items ordered by creation time.
	List(ctx context.Context, offset, limit int) ([]domain.NewsContent, error)
}

// AssociationIndex records which user added which content item. The pair
// (user, content) is created at most once.
type AssociationIndex interface {
	Exists(ctx context.Context, userID, contentID uuid.UUID) (bool, error)
	// Create links a user to a content item. Linking an already-linked pair
	// is a no-op. Both ids must refer to stored rows; a dangling id fails
	// with apperr.ErrNotFound.
	Create(ctx context.Context, userID, contentID uuid.UUID) error
}

// UserDirectory is the account store. The pipeline only needs Exists; the
// rest backs the account CRUD surface.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
	// History returns the content items associated with the user.
	History(ctx context.Context, id uuid.UUID) ([]domain.NewsContent, error)
	// Create stores a new account, or fails with apperr.ErrAlreadyExists
	// when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Type string

const (
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorageError string

const (
	ErrUnsupportedStorage StorageError = "unsupported storage type"
)

func (e StorageError) Error() string {
	return string(e)
}
