package memory

import (
	"context"
	"testing"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/bselic/newsbrief/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentStore_InsertDeduplicatesByURL(t *testing.T) {
	ctx := context.Background()
	contents := NewStore().Contents()

	first, err := contents.Insert(ctx, &domain.NewsContent{Title: "a", URL: "https://example.com/a"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	second, err := contents.Insert(ctx, &domain.NewsContent{Title: "a again", URL: "https://example.com/a"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "a", second.Title, "existing row wins over the new payload")

	items, err := contents.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestContentStore_UpdateSummaryWriteOnce(t *testing.T) {
	ctx := context.Background()
	contents := NewStore().Contents()

	item, err := contents.Insert(ctx, &domain.NewsContent{Title: "a", URL: "https://example.com/a"})
	require.NoError(t, err)

	require.NoError(t, contents.UpdateSummary(ctx, item.ID, "first"))
	require.NoError(t, contents.UpdateSummary(ctx, item.ID, "second"))

	got, err := contents.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Summary)
}

func TestContentStore_UpdateSummaryMissing(t *testing.T) {
	contents := NewStore().Contents()
	err := contents.UpdateSummary(context.Background(), uuid.New(), "text")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestContentStore_FindByURLMiss(t *testing.T) {
	contents := NewStore().Contents()
	_, err := contents.FindByURL(context.Background(), "https://example.com/missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAssociationIndex_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	links := store.Links()

	u, err := store.Users().Create(ctx, &domain.User{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)
	item, err := store.Contents().Insert(ctx, &domain.NewsContent{Title: "t", URL: "https://example.com/a"})
	require.NoError(t, err)

	exists, err := links.Exists(ctx, u.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, links.Create(ctx, u.ID, item.ID))
	require.NoError(t, links.Create(ctx, u.ID, item.ID))

	exists, err = links.Exists(ctx, u.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAssociationIndex_CreateRejectsDanglingIDs(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	links := store.Links()

	u, err := store.Users().Create(ctx, &domain.User{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)
	item, err := store.Contents().Insert(ctx, &domain.NewsContent{Title: "t", URL: "https://example.com/a"})
	require.NoError(t, err)

	assert.ErrorIs(t, links.Create(ctx, uuid.New(), item.ID), apperr.ErrNotFound)
	assert.ErrorIs(t, links.Create(ctx, u.ID, uuid.New()), apperr.ErrNotFound)

	exists, err := links.Exists(ctx, uuid.New(), item.ID)
	require.NoError(t, err)
	assert.False(t, exists, "a rejected create must not leave a link behind")
}

func TestUserDirectory_CreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	_, err := users.Create(ctx, &domain.User{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Email: "a@example.com", Password: "y"})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestUserDirectory_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	u, err := users.Create(ctx, &domain.User{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)

	newEmail := "b@example.com"
	updated, err := users.Update(ctx, u.ID, domain.UserUpdate{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", updated.Email)
	assert.Equal(t, "x", updated.Password, "unset fields stay untouched")

	_, err = users.FindByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound, "old email must be released")
}

func TestUserDirectory_DeleteRemovesLinks(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users, links, contents := store.Users(), store.Links(), store.Contents()

	u, err := users.Create(ctx, &domain.User{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)
	item, err := contents.Insert(ctx, &domain.NewsContent{Title: "t", URL: "https://example.com/a"})
	require.NoError(t, err)
	require.NoError(t, links.Create(ctx, u.ID, item.ID))

	require.NoError(t, users.Delete(ctx, u.ID))

	exists, err := users.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	linked, err := links.Exists(ctx, u.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, linked)

	assert.ErrorIs(t, users.Delete(ctx, u.ID), apperr.ErrNotFound)
}

func TestUserDirectory_History(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	u, err := store.Users().Create(ctx, &domain.User{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)

	a, err := store.Contents().Insert(ctx, &domain.NewsContent{Title: "a", URL: "https://example.com/a"})
	require.NoError(t, err)
	_, err = store.Contents().Insert(ctx, &domain.NewsContent{Title: "b", URL: "https://example.com/b"})
	require.NoError(t, err)

	require.NoError(t, store.Links().Create(ctx, u.ID, a.ID))

	history, err := store.Users().History(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, a.ID, history[0].ID)
}
