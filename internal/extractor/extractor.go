package extractor

import "context"

// Extracted holds the structured fields pulled out of a fetched page.
// Everything except Title and URL may be empty.
type Extracted struct {
	Title           string
	Authors         string
	PublicationDate string
	Body            string
	URL             string
}

// Extractor fetches a URL and parses the page into article fields. Failures
// of any kind (unreachable URL, non-HTML content, parse error) surface as
// apperr.ErrExtractionFailed.
type Extractor interface {
	Extract(ctx context.Context, url string) (*Extracted, error)
}
