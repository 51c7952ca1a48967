// Package websearch implements port.SearchProvider over the hosted
// web-search/scrape vendor's REST API.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hireloop/devscout/internal/port"
)

// Client is a web-search vendor API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a search client against the given API base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Search runs a web search and returns up to limit results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]port.SearchResult, error) {
	payload := map[string]interface{}{
		"query":      query,
		"numResults": limit,
	}

	body, err := c.post(ctx, "/search", payload)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var resp struct {
		Results []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
			Text  string `json:"text"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("search decode: %w", err)
	}

	results := make([]port.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, port.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Text,
		})
	}
	return results, nil
}

// Scrape fetches the readable text content of a URL.
func (c *Client) Scrape(ctx context.Context, url string) (string, error) {
	payload := map[string]interface{}{
		"urls": []string{url},
		"text": true,
	}

	body, err := c.post(ctx, "/contents", payload)
	if err != nil {
		return "", fmt.Errorf("scrape: %w", err)
	}

	var resp struct {
		Results []struct {
			URL  string `json:"url"`
			Text string `json:"text"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("scrape decode: %w", err)
	}

	if len(resp.Results) == 0 {
		return "", fmt.Errorf("scrape: no content for %s", url)
	}
	return resp.Results[0].Text, nil
}

// post is a helper for POST requests to the vendor API.
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search API error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
