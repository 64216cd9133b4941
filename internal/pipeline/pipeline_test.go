package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/bselic/newsbrief/internal/domain"
	"github.com/bselic/newsbrief/internal/extractor"
	"github.com/bselic/newsbrief/internal/storage/memory"
	"github.com/bselic/newsbrief/internal/summarizer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeExtractor) Extract(_ context.Context, url string) (*extractor.Extracted, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.fail {
		return nil, fmt.Errorf("%w: unreachable url", apperr.ErrExtractionFailed)
	}
	return &extractor.Extracted{
		Title:   "Extracted title",
		Authors: "A. Writer",
		Body:    "body of " + url,
		URL:     url,
	}, nil
}

type fakeGenerator struct {
	mu         sync.Mutex
	chunks     []string
	failAfter  int // yield an error instead of the chunk at this index; -1 disables
	calls      int
	lastPrompt string
}

func newFakeGenerator(chunks ...string) *fakeGenerator {
	return &fakeGenerator{chunks: chunks, failAfter: -1}
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) summarizer.ChunkSeq {
	f.mu.Lock()
	f.calls++
	f.lastPrompt = prompt
	// Snapshot at call time: a stream must keep yielding the chunks that
	// were configured when it started, even if the fake is rewired later.
	chunks := append([]string(nil), f.chunks...)
	failAfter := f.failAfter
	f.mu.Unlock()

	return func(yield func(string, error) bool) {
		for i, chunk := range chunks {
			if failAfter >= 0 && i == failAfter {
				yield("", fmt.Errorf("%w: model terminated", apperr.ErrGenerationFailed))
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

type fixture struct {
	store     *memory.Store
	extractor *fakeExtractor
	generator *fakeGenerator
	orch      *Orchestrator
}

func newFixture(t *testing.T, gen *fakeGenerator) *fixture {
	t.Helper()

	store := memory.NewStore()
	ext := &fakeExtractor{}
	return &fixture{
		store:     store,
		extractor: ext,
		generator: gen,
		orch: NewOrchestrator(
			store.Contents(),
			store.Links(),
			store.Users(),
			ext,
			gen,
			summarizer.DefaultPrompts(),
		),
	}
}

func (f *fixture) createUser(t *testing.T, email string) uuid.UUID {
	t.Helper()
	u, err := f.store.Users().Create(context.Background(), &domain.User{Email: email, Password: "secret"})
	require.NoError(t, err)
	return u.ID
}

func drain(t *testing.T, ctx context.Context, s *SummaryStream) ([]string, error) {
	t.Helper()
	var chunks []string
	err := s.Run(ctx, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	return chunks, err
}

func TestAddContentForUser_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newFakeGenerator())
	userID := f.createUser(t, "u1@example.com")

	first, err := f.orch.AddContentForUser(ctx, userID, "https://example.com/a")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)
	assert.Empty(t, first.Summary)

	second, err := f.orch.AddContentForUser(ctx, userID, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, 1, f.extractor.calls, "cache hit must skip extraction")

	history, err := f.store.Users().History(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "repeat add must not create a second association")
}

func TestAddContentForUser_CrossUserSharing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newFakeGenerator())
	u1 := f.createUser(t, "u1@example.com")
	u2 := f.createUser(t, "u2@example.com")

	first, err := f.orch.AddContentForUser(ctx, u1, "https://example.com/a")
	require.NoError(t, err)

	second, err := f.orch.AddContentForUser(ctx, u2, "https://example.com/a")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same URL must resolve to the same content item")
	assert.Equal(t, 1, f.extractor.calls)

	all, err := f.store.Contents().List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	for _, uid := range []uuid.UUID{u1, u2} {
		linked, err := f.store.Links().Exists(ctx, uid, first.ID)
		require.NoError(t, err)
		assert.True(t, linked)
	}
}

func TestAttachContentToUser_UnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newFakeGenerator())

	_, err := f.orch.AttachContentToUser(ctx, uuid.New(), &domain.NewsContent{
		Title: "t",
		URL:   "https://example.com/a",
	})
	require.ErrorIs(t, err, apperr.ErrAccessDenied)

	all, err := f.store.Contents().List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, all, "access denial must perform zero writes")
}

func TestResolveContent_CacheHit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newFakeGenerator())

	stored, err := f.store.Contents().Insert(ctx, &domain.NewsContent{
		Title: "already here",
		URL:   "https://example.com/cached",
	})
	require.NoError(t, err)

	resolved, err := f.orch.ResolveContent(ctx, "https://example.com/cached")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, resolved.ID)
	assert.Equal(t, 0, f.extractor.calls)
}

func TestResolveContent_ExtractionFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newFakeGenerator())
	f.extractor.fail = true

	_, err := f.orch.ResolveContent(ctx, "https://example.com/broken")
	require.ErrorIs(t, err, apperr.ErrExtractionFailed)

	_, err = f.store.Contents().FindByURL(ctx, "https://example.com/broken")
	assert.ErrorIs(t, err, apperr.ErrNotFound, "failed extraction must leave no partial item")
}

func TestStreamContentSummary_PersistsOnCompletion(t *testing.T) {
	ctx := context.Background()
	gen := newFakeGenerator("The ", "quick ", "brown fox...")
	f := newFixture(t, gen)
	userID := f.createUser(t, "u1@example.com")

	item, err := f.orch.AddContentForUser(ctx, userID, "https://example.com/fox")
	require.NoError(t, err)

	stream, err := f.orch.StreamContentSummary(ctx, userID, item.ID)
	require.NoError(t, err)

	chunks, err := drain(t, ctx, stream)
	require.NoError(t, err)
	assert.Equal(t, []string{"The ", "quick ", "brown fox..."}, chunks)

	stored, err := f.store.Contents().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "The quick brown fox...", stored.Summary,
		"summary must be the chunk concatenation with no separators")
}

func TestStreamContentSummary_FirstCompletedSummaryWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newFakeGenerator("first"))
	userID := f.createUser(t, "u1@example.com")

	item, err := f.orch.AddContentForUser(ctx, userID, "https://example.com/a")
	require.NoError(t, err)

	// Two in-flight generations for the same item; the second finishes after
	// the first already finalized.
	streamA, err := f.orch.StreamContentSummary(ctx, userID, item.ID)
	require.NoError(t, err)
	f.generator.chunks = []string{"second"}
	streamB, err := f.orch.StreamContentSummary(ctx, userID, item.ID)
	require.NoError(t, err)

	chunksA, err := drain(t, ctx, streamA)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, chunksA,
		"a stream must yield the chunks configured when it started")
	chunksB, err := drain(t, ctx, streamB)
	require.NoError(t, err, "duplicate completion must be a no-op, not an error")
	assert.Equal(t, []string{"second"}, chunksB)

	stored, err := f.store.Contents().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Summary)
}

func TestStreamContentSummary_ClientDisconnect(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newFakeGenerator("The ", "quick ", "brown fox..."))
	userID := f.createUser(t, "u1@example.com")

	item, err := f.orch.AddContentForUser(ctx, userID, "https://example.com/a")
	require.NoError(t, err)

	stream, err := f.orch.StreamContentSummary(ctx, userID, item.ID)
	require.NoError(t, err)

	disconnected := errors.New("client disconnected")
	seen := 0
	err = stream.Run(ctx, func(string) error {
		seen++
		if seen == 2 {
			return disconnected
		}
		return nil
	})
	require.ErrorIs(t, err, disconnected)

	stored, err := f.store.Contents().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Summary, "aborted stream must not write a partial summary")
}

func TestStreamContentSummary_GenerationFailureMidStream(t *testing.T) {
	ctx := context.Background()
	gen := newFakeGenerator("The ", "quick ", "brown fox...")
	gen.failAfter = 2
	f := newFixture(t, gen)
	userID := f.createUser(t, "u1@example.com")

	item, err := f.orch.AddContentForUser(ctx, userID, "https://example.com/a")
	require.NoError(t, err)

	stream, err := f.orch.StreamContentSummary(ctx, userID, item.ID)
	require.NoError(t, err)

	chunks, err := drain(t, ctx, stream)
	require.ErrorIs(t, err, apperr.ErrGenerationFailed)
	assert.Equal(t, []string{"The ", "quick "}, chunks)

	stored, err := f.store.Contents().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Summary)
}

func TestStreamContentSummary_NoAssociation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newFakeGenerator("x"))
	userID := f.createUser(t, "u1@example.com")

	stored, err := f.store.Contents().Insert(ctx, &domain.NewsContent{
		Title: "unlinked",
		URL:   "https://example.com/unlinked",
	})
	require.NoError(t, err)

	_, err = f.orch.StreamContentSummary(ctx, userID, stored.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStreamContentSummary_ReplaysWhenSummaryExists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newFakeGenerator("a fresh take"))
	userID := f.createUser(t, "u1@example.com")

	item, err := f.orch.AddContentForUser(ctx, userID, "https://example.com/a")
	require.NoError(t, err)
	require.NoError(t, f.store.Contents().UpdateSummary(ctx, item.ID, "the original summary"))

	// Generation is not short-circuited by an existing summary; only the
	// finalize write is guarded.
	stream, err := f.orch.StreamContentSummary(ctx, userID, item.ID)
	require.NoError(t, err)

	chunks, err := drain(t, ctx, stream)
	require.NoError(t, err)
	assert.Equal(t, []string{"a fresh take"}, chunks)
	assert.Equal(t, 1, f.generator.calls)

	stored, err := f.store.Contents().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "the original summary", stored.Summary)
}

func TestStreamURLSummary_Transient(t *testing.T) {
	ctx := context.Background()
	gen := newFakeGenerator("short ", "preview")
	f := newFixture(t, gen)
	userID := f.createUser(t, "u1@example.com")

	stream, err := f.orch.StreamURLSummary(ctx, userID, "https://example.com/a")
	require.NoError(t, err)

	chunks, err := drain(t, ctx, stream)
	require.NoError(t, err)
	assert.Equal(t, []string{"short ", "preview"}, chunks)
	assert.Contains(t, gen.lastPrompt, "https://example.com/a")

	all, err := f.store.Contents().List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, all, "transient summarization must not persist anything")
}

func TestStreamURLSummary_UnknownUser(t *testing.T) {
	f := newFixture(t, newFakeGenerator("x"))

	_, err := f.orch.StreamURLSummary(context.Background(), uuid.New(), "https://example.com/a")
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
}
