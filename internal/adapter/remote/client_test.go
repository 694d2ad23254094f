package remote

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.zip", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(strings.Repeat("x", 20000)))
	})
	mux.HandleFunc("/slow.zip", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestProbe(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(Options{})

	if err := c.Probe(context.Background(), srv.URL+"/ok.zip"); err != nil {
		t.Errorf("expected the existence check to succeed, got %v", err)
	}

	err := c.Probe(context.Background(), srv.URL+"/missing.zip")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", se.Code)
	}
}

func TestFetch(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(Options{ChunkSize: 1024})

	var buf bytes.Buffer
	n, err := c.Fetch(context.Background(), srv.URL+"/ok.zip", &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 20000 || buf.Len() != 20000 {
		t.Errorf("expected 20000 bytes, got n=%d len=%d", n, buf.Len())
	}
}

func TestFetch_Status(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(Options{UserAgent: "other"})

	var buf bytes.Buffer
	_, err := c.Fetch(context.Background(), srv.URL+"/ok.zip", &buf)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusForbidden {
		t.Errorf("expected 403 StatusError, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written on a failed status, got %d bytes", buf.Len())
	}
}

func TestTimeout(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(Options{Timeout: 50 * time.Millisecond})

	if err := c.Probe(context.Background(), srv.URL+"/slow.zip"); err == nil {
		t.Error("expected the request to time out")
	}
}

func TestContextCancel(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Probe(ctx, srv.URL+"/ok.zip"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
