// Package github implements port.GitHubProvider over the GitHub REST and
// GraphQL APIs using a plain HTTP client.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hireloop/devscout/internal/port"
)

const defaultPerPage = 100

// Client is a GitHub API client. An empty token works for low-volume
// unauthenticated access; the rate-limit error surfaces either way.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a GitHub client against the given API base URL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Profile fetches a single user, mapping 404 and 403 to sentinel errors.
func (c *Client) Profile(ctx context.Context, username string) (*port.Profile, error) {
	var p port.Profile
	if err := c.get(ctx, "/users/"+url.PathEscape(username), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Repositories lists a user's public repositories, newest activity first.
func (c *Client) Repositories(ctx context.Context, username string) ([]port.Repository, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(defaultPerPage))
	q.Set("sort", "updated")

	var repos []port.Repository
	if err := c.get(ctx, "/users/"+url.PathEscape(username)+"/repos", q, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// Events lists a user's recent public events.
func (c *Client) Events(ctx context.Context, username string) ([]port.Event, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(defaultPerPage))

	var events []port.Event
	if err := c.get(ctx, "/users/"+url.PathEscape(username)+"/events", q, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SearchUsers returns up to limit usernames matching a search query.
func (c *Client) SearchUsers(ctx context.Context, query string, limit int) ([]string, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", strconv.Itoa(limit))

	var resp struct {
		Items []struct {
			Login string `json:"login"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/search/users", q, &resp); err != nil {
		return nil, err
	}

	logins := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		logins = append(logins, item.Login)
	}
	return logins, nil
}

// Contributors lists contributors to a repository.
func (c *Client) Contributors(ctx context.Context, owner, repo string) ([]port.Contributor, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(defaultPerPage))

	path := fmt.Sprintf("/repos/%s/%s/contributors", url.PathEscape(owner), url.PathEscape(repo))
	var contributors []port.Contributor
	if err := c.get(ctx, path, q, &contributors); err != nil {
		return nil, err
	}
	return contributors, nil
}

// get performs a GET request and decodes the JSON body into target.
func (c *Client) get(ctx context.Context, path string, q url.Values, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// checkStatus maps GitHub status codes to the errors the chat agent reasons
// about: 404 → user not found, 403 → rate limited, other non-2xx → generic.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return port.ErrUserNotFound
	case resp.StatusCode == http.StatusForbidden:
		return port.ErrRateLimited
	default:
		return fmt.Errorf("GitHub API error: %d", resp.StatusCode)
	}
}
