package port

import "context"

// SearchResult is one hit from the web-search vendor.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// SearchProvider abstracts the hosted web-search/scrape vendor.
type SearchProvider interface {
	// Search runs a web search and returns up to limit results.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)

	// Scrape fetches the readable text content of a URL.
	Scrape(ctx context.Context, url string) (string, error)
}
