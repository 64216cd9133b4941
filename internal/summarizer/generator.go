package summarizer

import (
	"context"
	"iter"
)

// ChunkSeq is a finite, forward-only sequence of generated text fragments in
// generation order. It is single-use: ranging over it again re-invokes
// nothing and yields nothing.
type ChunkSeq = iter.Seq2[string, error]

// Generator wraps a streaming text-generation capability: prompt in,
// incremental chunks out. Mid-stream failures are yielded as errors wrapping
// apperr.ErrGenerationFailed and terminate the sequence.
type Generator interface {
	Generate(ctx context.Context, prompt string) ChunkSeq
}
