package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bselic/newsbrief/internal/apperr"
	readability "github.com/go-shiori/go-readability"
)

const defaultFetchTimeout = 30 * time.Second

// ReadabilityExtractor fetches pages over HTTP and runs go-readability over
// the response body.
type ReadabilityExtractor struct {
	client *http.Client
}

func NewReadabilityExtractor() *ReadabilityExtractor {
	return &ReadabilityExtractor{
		client: &http.Client{Timeout: defaultFetchTimeout},
	}
}

func (e *ReadabilityExtractor) Extract(ctx context.Context, rawURL string) (*Extracted, error) {
	pageURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url %q: %v", apperr.ErrExtractionFailed, rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrExtractionFailed, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", apperr.ErrExtractionFailed, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %d", apperr.ErrExtractionFailed, rawURL, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", apperr.ErrExtractionFailed, rawURL, err)
	}

	var published string
	if article.PublishedTime != nil {
		published = article.PublishedTime.Format(time.RFC3339)
	}

	return &Extracted{
		Title:           article.Title,
		Authors:         article.Byline,
		PublicationDate: published,
		Body:            article.TextContent,
		URL:             rawURL,
	}, nil
}
