package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewsContent is one extracted article. Identity for deduplication is the URL:
// two resolutions of the same URL must end up at the same row, regardless of
// the generated id.
type NewsContent struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Authors         string    `json:"authors,omitempty"`
	PublicationDate string    `json:"publicationDate,omitempty"`
	Body            string    `json:"content,omitempty"`
	URL             string    `json:"url"`
	Summary         string    `json:"summary,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// HasSummary reports whether the summarization pipeline already finalized
// this item. A non-empty summary is stable: later completions must not
// overwrite it.
func (c *NewsContent) HasSummary() bool {
	return c.Summary != ""
}
