// Package sandbox implements port.SandboxProvider over the hosted
// code-execution vendor's REST API.
package sandbox

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

// Client is a sandbox vendor API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a sandbox client against the given API base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Create provisions a new sandbox with the given TTL. The vendor tears the
// sandbox down at TTL expiry regardless of activity.
func (c *Client) Create(ctx context.Context, ttl time.Duration) (port.Sandbox, error) {
	payload := map[string]interface{}{
		"timeout_seconds": int(ttl.Seconds()),
	}

	body, err := c.request(ctx, http.MethodPost, "/sandboxes", payload)
	if err != nil {
		return nil, fmt.Errorf("create sandbox: %w", err)
	}

	var resp struct {
		SandboxID string `json:"sandbox_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("create sandbox decode: %w", err)
	}
	if resp.SandboxID == "" {
		return nil, fmt.Errorf("create sandbox: vendor returned empty id")
	}

	return &instance{client: c, id: resp.SandboxID}, nil
}

// instance is one provisioned sandbox.
type instance struct {
	client *Client
	id     string
}

func (s *instance) ID() string {
	return s.id
}

// Exec runs a shell command inside the sandbox.
func (s *instance) Exec(ctx context.Context, command string) (*port.ExecResult, error) {
	payload := map[string]interface{}{
		"command": command,
	}

	body, err := s.client.request(ctx, http.MethodPost, "/sandboxes/"+s.id+"/commands", payload)
	if err != nil {
		return nil, fmt.Errorf("exec command: %w", err)
	}

	var result port.ExecResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("exec decode: %w", err)
	}
	return &result, nil
}

// Stop tears the sandbox down. Idempotent on the vendor side.
func (s *instance) Stop(ctx context.Context) error {
	_, err := s.client.request(ctx, http.MethodDelete, "/sandboxes/"+s.id, nil)
	if err != nil {
		return fmt.Errorf("stop sandbox: %w", err)
	}
	return nil
}

func (c *Client) request(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		reqBody = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sandbox API error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
