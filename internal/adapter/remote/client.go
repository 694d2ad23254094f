package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultUserAgent = "Mozilla/5.0"

// StatusError reports a response other than 200 OK.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.URL)
}

// Client issues GET requests carrying the static headers every request to
// a source needs.
type Client struct {
	http      *http.Client
	referer   string
	userAgent string
	chunkSize int
}

// Options configures a Client.
type Options struct {
	Referer   string
	UserAgent string
	// Timeout bounds each request; zero means no timeout.
	Timeout time.Duration
	// ChunkSize is the copy buffer size for downloads.
	ChunkSize int
	// Transport overrides the default transport, mostly for tests.
	Transport http.RoundTripper
}

func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 8192
	}
	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		referer:   opts.Referer,
		userAgent: opts.UserAgent,
		chunkSize: opts.ChunkSize,
	}
}

// Get performs a GET with the static headers. Any status other than 200 is
// returned as a *StatusError with the body already closed.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return resp, nil
}

// Probe checks that url answers 200 OK. The body is not read.
func (c *Client) Probe(ctx context.Context, url string) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Fetch streams the body of url into w in chunks.
func (c *Client) Fetch(ctx context.Context, url string, w io.Writer) (int64, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	buf := make([]byte, c.chunkSize)
	n, err := io.CopyBuffer(onlyWriter{w}, resp.Body, buf)
	if err != nil {
		return n, fmt.Errorf("failed to read body: %w", err)
	}
	return n, nil
}

// onlyWriter hides ReaderFrom so CopyBuffer really uses the chunk buffer.
type onlyWriter struct {
	io.Writer
}
