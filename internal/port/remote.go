package port

import (
	"context"
	"io"
)

// Prober checks that a remote file exists.
type Prober interface {
	// Probe returns nil when url answers 200 OK.
	Probe(ctx context.Context, url string) error
}

// Fetcher streams a remote file.
type Fetcher interface {
	// Fetch copies the body of url into w and returns the bytes written.
	Fetch(ctx context.Context, url string, w io.Writer) (int64, error)
}
