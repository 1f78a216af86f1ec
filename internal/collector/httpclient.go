package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// HTTPClient is a rate-limited JSON client that retries transient failures.
type HTTPClient struct {
	Client     *http.Client
	Limiter    *rate.Limiter
	UserAgent  string
	MaxRetries uint64
	// NewBackOff builds the retry schedule of one request.
	NewBackOff func() backoff.BackOff
}

// NewHTTPClient creates a client with optional proxy support.
func NewHTTPClient(proxyURL string, requestsPerSec int) *HTTPClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}
	return &HTTPClient{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Limiter:    rate.NewLimiter(rate.Limit(requestsPerSec), requestsPerSec),
		UserAgent:  "Mozilla/5.0",
		MaxRetries: 10,
		NewBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second
			return b
		},
	}
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d, body: %s", e.StatusCode, e.Body)
}

// GetJSON performs a GET and returns the parsed body. check, when set, validates the
// payload; its errors are retried like transport failures. Client errors (4xx other
// than 429) and malformed JSON are not retried.
func (c *HTTPClient) GetJSON(ctx context.Context, endpoint string, query url.Values, check func(gjson.Result) error) (gjson.Result, error) {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var result gjson.Result
	operation := func() error {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}
		resp, err := c.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}
		if !gjson.ValidBytes(body) {
			return backoff.Permanent(fmt.Errorf("invalid json from %s", req.URL.Host))
		}
		result = gjson.ParseBytes(body)
		if check != nil {
			return check(result)
		}
		return nil
	}

	b := c.NewBackOff()
	if c.MaxRetries > 0 {
		b = backoff.WithMaxRetries(b, c.MaxRetries)
	}
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return gjson.Result{}, err
	}
	return result, nil
}
