// Package dashboard is a thin HTTP/JSON accessor for the organization,
// network and device resources of the Meraki dashboard API.
//
// Every call is a single attempt: there is no retry and no backoff. Calls are
// paced by a client-side token bucket so a batch stays inside the API's
// per-organization request budget.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/merakisync/merakisync/pkg/metrics"
	"github.com/merakisync/merakisync/pkg/util"
)

const (
	// DefaultBaseURL is the v0 API root.
	DefaultBaseURL = "https://dashboard.meraki.com/api/v0/"

	// APIKeyHeader carries the credential on every request.
	APIKeyHeader = "X-Cisco-Meraki-API-Key"

	// DefaultRateLimit is the documented per-organization budget.
	DefaultRateLimit = 5.0
)

// Config holds configuration for the dashboard client.
type Config struct {
	BaseURL    string        // Optional; if empty, DefaultBaseURL is used
	APIKey     string        // Required
	Timeout    time.Duration // Optional; zero means no client timeout
	RateLimit  float64       // Requests per second; zero disables pacing
	HTTPClient *http.Client  // Optional; overrides Timeout when set
}

// Client issues requests against the dashboard API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, util.NewUsageError("API key not provided")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, util.NewUsageError("invalid base URL %q", baseURL)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		limiter:    limiter,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// response is a completed HTTP exchange.
type response struct {
	StatusCode int
	Body       []byte
}

// do performs one HTTP request. Only transport failures are returned as
// errors; any status code is handed back to the caller.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*response, error) {
	target := c.baseURL + path

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &util.RemoteError{Op: method, URL: target, Err: err}
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, &util.RemoteError{Op: method, URL: target, Err: err}
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log := util.WithFields(map[string]interface{}{"method": method, "url": target})
	log.Debug("dashboard request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(method, 0, time.Since(start))
		log.WithError(err).Debug("dashboard request failed")
		return nil, &util.RemoteError{Op: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	metrics.ObserveRequest(method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &util.RemoteError{Op: method, URL: target, StatusCode: resp.StatusCode, Err: err}
	}

	log.WithField("status", resp.StatusCode).Debug("dashboard response")
	return &response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// getJSON performs a GET and decodes a 200 response into v.
func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &util.RemoteError{
			Op:         http.MethodGet,
			URL:        c.baseURL + path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(resp.Body)),
		}
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return &util.RemoteError{
			Op:         http.MethodGet,
			URL:        c.baseURL + path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decoding response: %w", err),
		}
	}
	return nil
}
