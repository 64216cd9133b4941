package pipeline

import (
	"context"
	"strings"

	"github.com/bselic/newsbrief/internal/summarizer"
)

// FinalizeFunc receives the full accumulated text of a stream that completed
// normally. It runs at most once per stream.
type FinalizeFunc func(ctx context.Context, fullText string) error

// SummaryStream is one in-flight generation. It relays chunks to a consumer
// in arrival order while accumulating them, and distinguishes two terminal
// states: natural completion, which triggers the finalize callback with the
// concatenated text, and abort (consumer gone or generation error), which
// must leave persisted state untouched.
type SummaryStream struct {
	chunks   summarizer.ChunkSeq
	finalize FinalizeFunc
	done     bool
}

func newSummaryStream(chunks summarizer.ChunkSeq, finalize FinalizeFunc) *SummaryStream {
	return &SummaryStream{chunks: chunks, finalize: finalize}
}

// Run drains the stream, calling emit for every chunk. An error from emit
// means the consumer is gone: the stream aborts and finalize does not fire.
// Chunk boundaries carry no meaning, so the accumulated text is a plain
// concatenation with no separators. Run consumes the stream; it cannot be
// called twice.
func (s *SummaryStream) Run(ctx context.Context, emit func(chunk string) error) error {
	if s.done {
		return ErrStreamConsumed
	}
	s.done = true

	var full strings.Builder
	for chunk, err := range s.chunks {
		if err != nil {
			return err
		}
		full.WriteString(chunk)
		if err := emit(chunk); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		// The consumer disconnected between the last chunk and here; treat
		// it as an abort, not a completion.
		return err
	}

	if s.finalize == nil {
		return nil
	}
	return s.finalize(ctx, full.String())
}
