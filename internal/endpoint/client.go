// Package endpoint is the REST client for the per-entity /api/v1 resources.
package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TokenSource supplies the bearer token sent with every request.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed bearer token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// Client performs list/create/update/delete calls against resource endpoints.
type Client struct {
	config     Config
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a client. tokens may be nil for unauthenticated use.
func NewClient(config Config, tokens TokenSource) *Client {
	return &Client{
		config: config,
		tokens: tokens,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// List decodes the full collection of resource into out.
func (c *Client) List(ctx context.Context, resource string, out any) error {
	return c.do(ctx, http.MethodGet, resource, "", nil, out, successful)
}

// Create posts in to resource and decodes the created item into out.
func (c *Client) Create(ctx context.Context, resource string, in, out any) error {
	return c.do(ctx, http.MethodPost, resource, "", in, out, successful)
}

// Update puts in to resource/id and decodes the updated item into out.
func (c *Client) Update(ctx context.Context, resource, id string, in, out any) error {
	return c.do(ctx, http.MethodPut, resource, id, in, out, successful)
}

// Delete removes resource/id.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	return c.do(ctx, http.MethodDelete, resource, id, nil, nil, successful)
}

// Post sends in to resource/action, used by the authentication endpoints.
// Actions may answer 204 with no body.
func (c *Client) Post(ctx context.Context, resource, action string, in, out any) error {
	return c.do(ctx, http.MethodPost, resource, action, in, out, actionSucceeded)
}

// URL returns the absolute URL of resource, or resource/id when id is set.
func (c *Client) URL(resource, id string) string {
	u := c.config.BaseURLFor(resource) + APIPrefix + "/" + strings.Trim(resource, "/")
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *Client) do(ctx context.Context, method, resource, id string, in, out any, ok func(method string, status int) bool) error {
	target := c.URL(resource, id)

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, target, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if !ok(method, resp.StatusCode) {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &FetchError{
			Method: method,
			URL:    target,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{
			Method: method,
			URL:    target,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decoding response: %w", err),
		}
	}

	return nil
}

// successful applies the per-verb success statuses of the resource contract.
func successful(method string, status int) bool {
	switch method {
	case http.MethodPost:
		return status == http.StatusOK || status == http.StatusCreated
	case http.MethodDelete:
		return status == http.StatusOK || status == http.StatusNoContent
	default:
		return status == http.StatusOK
	}
}

func actionSucceeded(_ string, status int) bool {
	return status == http.StatusOK || status == http.StatusCreated || status == http.StatusNoContent
}

// newRequest creates a new HTTP request with authentication.
func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
