package httpclient

import (
	"fmt"
	"net/http"
	"time"
)

const (
	defaultMaxRetries        = 3
	defaultInitialRetryDelay = 500 * time.Millisecond
	defaultMaxRetryDelay     = 5 * time.Second
	defaultTimeout           = 30 * time.Second
)

// RetryClient wraps an http.Client with bounded exponential backoff. Only
// requests the caller knows to be idempotent should go through Do; creation
// POSTs must use DoOnce so a transient failure cannot duplicate a resource.
type RetryClient struct {
	client            *http.Client
	maxRetries        int
	initialRetryDelay time.Duration
	maxRetryDelay     time.Duration
}

type Option func(*RetryClient)

func WithMaxRetries(n int) Option {
	return func(c *RetryClient) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *RetryClient) {
		if client != nil {
			c.client = client
		}
	}
}

func WithInitialRetryDelay(d time.Duration) Option {
	return func(c *RetryClient) {
		if d > 0 {
			c.initialRetryDelay = d
		}
	}
}

func New(opts ...Option) *RetryClient {
	c := &RetryClient{
		client:            &http.Client{Timeout: defaultTimeout},
		maxRetries:        defaultMaxRetries,
		initialRetryDelay: defaultInitialRetryDelay,
		maxRetryDelay:     defaultMaxRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryable reports whether the outcome warrants another attempt: network
// errors, 5xx responses and 429 rate limits.
func retryable(err error, resp *http.Response) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

// Do executes the request, retrying with exponential backoff. The request
// must have a rewindable body (GetBody set) or no body at all.
func (c *RetryClient) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	delay := c.initialRetryDelay
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return nil, fmt.Errorf("failed to rewind request body: %w", bodyErr)
				}
				req.Body = body
			}
		}

		resp, err = c.client.Do(req)
		if !retryable(err, resp) || attempt >= c.maxRetries {
			return resp, err
		}
		if resp != nil {
			resp.Body.Close()
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.maxRetryDelay {
			delay = c.maxRetryDelay
		}
	}
}

// DoOnce executes the request exactly once, with no retries.
func (c *RetryClient) DoOnce(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
