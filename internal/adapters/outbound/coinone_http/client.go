package coinone_http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/charleschow/coinone-dca/internal/adapters/coinone_auth"
	"github.com/charleschow/coinone-dca/internal/telemetry"
)

type Client struct {
	baseURL      string
	httpClient   *http.Client
	signer       *coinone_auth.Signer
	readLimiter  *rate.Limiter
	writeLimiter *rate.Limiter
}

func NewClient(baseURL string, signer *coinone_auth.Signer) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		signer: signer,
		// Coinone allows 10 private and far more public calls per second.
		readLimiter:  rate.NewLimiter(rate.Limit(20), 20),
		writeLimiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

// do issues one request. POST payloads are signed and sent both as the body
// and in the payload header; GET requests carry no auth headers.
func (c *Client) do(ctx context.Context, method, path string, payload map[string]any) ([]byte, int, error) {
	lim := c.readLimiter
	if method != http.MethodGet {
		lim = c.writeLimiter
	}
	if err := lim.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	var (
		bodyReader io.Reader
		signed     coinone_auth.Signed
	)
	if method != http.MethodGet {
		var err error
		signed, err = c.signer.Sign(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("sign %s: %w", path, err)
		}
		bodyReader = bytes.NewReader(signed.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		signed.Apply(req)
	}

	telemetry.Metrics.ExchangeCalls.Inc()
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.Metrics.ExchangeErrors.Inc()
		telemetry.Errorf("coinone_http: %s %s failed: %v", method, path, err)
		return nil, 0, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		telemetry.Metrics.ExchangeErrors.Inc()
		telemetry.Errorf("coinone_http: %s %s read body: %v", method, path, err)
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	elapsed := time.Since(start)
	telemetry.Metrics.ExchangeLatency.Record(elapsed)
	telemetry.Infof("coinone_http: %s %s -> %d (%s)", method, path, resp.StatusCode, elapsed)

	return respBody, resp.StatusCode, nil
}

func (c *Client) Get(ctx context.Context, path string) ([]byte, int, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, payload map[string]any) ([]byte, int, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

// decode parses a JSON response body. Coinone reports most failures with
// HTTP 200 and result="error", so the status code is only used for context.
func decode(path string, status int, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		telemetry.Metrics.ExchangeErrors.Inc()
		telemetry.Errorf("coinone_http: %s returned non-JSON body (status=%d): %.200s", path, status, body)
		return fmt.Errorf("decode %s response (status=%d): %w", path, status, err)
	}
	return nil
}
