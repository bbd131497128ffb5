package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/gossip/utils"
)

// Credentials supplies what an outbound request should carry on behalf of
// the browser: the bearer token and any cookies to forward.
type Credentials interface {
	BearerToken(ctx context.Context) (string, bool)
	Cookies() []*http.Cookie
}

// Client talks to the remote forum API. It never retries, never refreshes
// tokens and leaves 401 handling to the caller.
type Client struct {
	baseURL     string
	tokenCookie string
	http        *http.Client
}

// NewClient builds a client for baseURL. tokenCookie is the name of the
// cookie the API may set on login.
func NewClient(baseURL, tokenCookie string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenCookie: tokenCookie,
		http:        &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Do sends payload as JSON to endpoint. creds may be nil for anonymous calls.
func (c *Client) Do(ctx context.Context, creds Credentials, method, endpoint string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != nil {
		for _, ck := range creds.Cookies() {
			req.AddCookie(ck)
		}
		if token, ok := creds.BearerToken(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// call performs one request and decodes a 2xx JSON body into out (when out is
// non-nil). Non-2xx responses become *Error carrying the body text or fallback.
func (c *Client) call(ctx context.Context, creds Credentials, method, endpoint string, payload, out any, fallback string) (*http.Response, error) {
	resp, err := c.Do(ctx, creds, method, endpoint, payload)
	if err != nil {
		utils.Logger.Warn("api request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := readError(resp, endpoint, fallback)
		utils.Logger.Warn("api request rejected",
			zap.String("endpoint", endpoint),
			zap.Int("status", apiErr.Status),
			zap.String("detail", apiErr.Detail()),
		)
		return resp, apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return resp, nil
}
