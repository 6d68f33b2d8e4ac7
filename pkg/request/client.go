// Package request provides the outbound HTTP client used for schedule and
// configuration fetches, with per-host serialization and retry backoff.
package request

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"dockboard/pkg/tracker"
	"dockboard/pkg/version"
)

var (
	defaultUserAgent = fmt.Sprintf("Dockboard Arrival Display (dockboard/%s)", version.Version)
)

// Client handles HTTP requests with per-host queuing and tracking. Requests
// to the same host are processed sequentially so the schedule backend never
// sees concurrent hits from multiple feed drivers.
type Client struct {
	httpClient *http.Client
	tracker    *tracker.Tracker
	backoff    *ProviderBackoff

	// Queues per host
	queues map[string]chan job
	mu     sync.Mutex // Protects queues map
}

// job represents a queued request.
type job struct {
	req      *http.Request
	headers  map[string]string
	respChan chan jobResult
}

type jobResult struct {
	body []byte
	err  error
}

// New creates a new Client.
func New(t *tracker.Tracker) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tracker:    t,
		backoff:    NewProviderBackoff(500*time.Millisecond, 30*time.Second),
		queues:     make(map[string]chan job),
	}
}

// GetFresh performs a GET request with a cache-busting query parameter so
// intermediaries never serve a stale schedule.
func (c *Client) GetFresh(ctx context.Context, u string) ([]byte, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	q := parsed.Query()
	q.Set("_", strconv.FormatInt(time.Now().UnixNano(), 10))
	parsed.RawQuery = q.Encode()
	return c.Get(ctx, parsed.String())
}

// Get performs a GET request through the host queue.
func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	return c.GetWithHeaders(ctx, u, nil)
}

// GetWithHeaders performs a GET request with custom headers.
func (c *Client) GetWithHeaders(ctx context.Context, u string, headers map[string]string) ([]byte, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	host := parsedURL.Host

	req, err := http.NewRequestWithContext(ctx, "GET", u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	respChan := make(chan jobResult, 1)
	j := job{req: req, headers: headers, respChan: respChan}

	c.dispatch(host, j)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-respChan:
		return res.body, res.err
	}
}

// dispatch sends the job to the host's queue, creating the queue/worker if needed.
func (c *Client) dispatch(host string, j job) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, ok := c.queues[host]
	if !ok {
		// Create new queue and start worker
		q = make(chan job, 100)
		c.queues[host] = q
		go c.worker(host, q)
	}

	// We block here if the queue is full, effectively throttling the caller
	select {
	case q <- j:
	case <-j.req.Context().Done():
		// Caller gave up before we could even enqueue
		j.respChan <- jobResult{err: j.req.Context().Err()}
	}
}

// worker processes requests for a specific host sequentially.
func (c *Client) worker(host string, q <-chan job) {
	for j := range q {
		// Check context before processing
		if j.req.Context().Err() != nil {
			slog.Warn("Job dropped from queue (context expired)", "host", host, "error", j.req.Context().Err())
			j.respChan <- jobResult{err: j.req.Context().Err()}
			continue
		}

		c.backoff.Wait(host)

		// Apply User-Agent (Default if not provided)
		uaMatch := false
		for k, v := range j.headers {
			j.req.Header.Set(k, v)
			if http.CanonicalHeaderKey(k) == "User-Agent" {
				uaMatch = true
			}
		}
		if !uaMatch {
			j.req.Header.Set("User-Agent", defaultUserAgent)
		}

		body, err := c.executeWithBackoff(j.req)

		if err == nil {
			c.tracker.TrackSuccess(host)
			c.backoff.RecordSuccess(host)
		} else {
			c.tracker.TrackFailure(host)
			c.backoff.RecordFailure(host)
		}

		j.respChan <- jobResult{body: body, err: err}

		// Hardcoded safety gap to prevent hitting rate limits
		time.Sleep(100 * time.Millisecond)
	}
}

// executeWithBackoff attempts the request with exponential backoff on retryable errors.
func (c *Client) executeWithBackoff(req *http.Request) ([]byte, error) {
	maxAttempts := 3
	baseDelay := 500 * time.Millisecond

	for attempt := 0; attempt < maxAttempts; attempt++ {
		// Verify context is still alive before dialing
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}

		slog.Debug("Network Request", "host", req.URL.Host, "path", req.URL.Path, "attempt", attempt+1)
		resp, err := c.httpClient.Do(req)

		if err != nil {
			// Check if the error is a context cancellation from OUR side
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}

			// Otherwise, it's a network error or server timeout
			slog.Warn("Request failed, retrying", "url", req.URL, "attempt", attempt+1, "error", err)

			// Simple exponential backoff
			sleepDur := time.Duration(math.Pow(2, float64(attempt))) * baseDelay
			select {
			case <-time.After(sleepDur):
				continue
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}

		// Handle Status Codes
		if resp.StatusCode == 429 || (resp.StatusCode >= 500 && resp.StatusCode < 600) {
			resp.Body.Close()
			slog.Warn("API Backoff", "status", resp.StatusCode, "url", req.URL, "attempt", attempt+1)

			sleepDur := time.Duration(math.Pow(2, float64(attempt))) * baseDelay
			select {
			case <-time.After(sleepDur):
				continue
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("api error: status %d", resp.StatusCode)
		}

		// Success
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read error: %w", err)
		}
		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded")
}
