// Package hubspot wraps outbound calls to the HubSpot REST API with the
// resolved credential and uniform error translation. Every call is
// attempted exactly once; retry policy belongs to the caller.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hublink/hublink/internal/auth"
	"github.com/hublink/hublink/internal/models"
)

// Client performs authenticated JSON requests against the CRM API. It holds
// no state beyond its configuration; the resolver owns the credential.
type Client struct {
	baseURL  string
	http     *http.Client
	resolver *auth.Resolver
}

func New(baseURL string, timeout time.Duration, resolver *auth.Resolver) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		resolver: resolver,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	token, err := c.resolver.Token(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("path", path).Msg("hubspot request failed")
		return nil, &models.APIError{Kind: models.KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.APIError{Kind: models.KindNetwork, Message: err.Error()}
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("hubspot request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := models.KindFromStatus(resp.StatusCode)
		if kind == models.KindAuth {
			// The token was rejected; drop it so the next call re-resolves.
			c.resolver.Invalidate()
		}
		return nil, &models.APIError{
			StatusCode: resp.StatusCode,
			Kind:       kind,
			Message:    errorMessage(resp.StatusCode, raw),
		}
	}

	if len(raw) == 0 {
		return nil, nil
	}
	return json.RawMessage(raw), nil
}

// errorMessage pulls HubSpot's message field out of an error body, falling
// back to the raw payload when it isn't the documented shape.
func errorMessage(status int, raw []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	if len(raw) > 0 {
		s := string(raw)
		if len(s) > 300 {
			s = s[:300] + "..."
		}
		return fmt.Sprintf("request failed with status %d: %s", status, s)
	}
	return fmt.Sprintf("request failed with status %d", status)
}
