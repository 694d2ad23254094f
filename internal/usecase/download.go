package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"romdex/internal/domain"
	"romdex/internal/port"
)

// DownloadUseCase fetches batches of indexed files into a directory.
type DownloadUseCase struct {
	fetcher port.Fetcher
	history port.HistoryStore
	logger  *slog.Logger
	maxConc int
}

// NewDownloadUseCase creates a new download use case. history may be nil.
func NewDownloadUseCase(fetcher port.Fetcher, history port.HistoryStore, logger *slog.Logger, maxConc int) *DownloadUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DownloadUseCase{
		fetcher: fetcher,
		history: history,
		logger:  logger,
		maxConc: maxConc,
	}
}

// DownloadRequest describes one batch.
type DownloadRequest struct {
	Platform  string
	Index     *domain.Index
	Filenames []string
	Dir       string
	// Progress is called once per finished file, possibly concurrently.
	Progress func(domain.DownloadResult)
}

// Download runs one task per file and returns when all of them have
// finished. A failed file never cancels its siblings; its error is in the
// matching result. Results follow the order of req.Filenames.
func (u *DownloadUseCase) Download(ctx context.Context, req DownloadRequest) ([]domain.DownloadResult, error) {
	if err := os.MkdirAll(req.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	p := pool.NewWithResults[domain.DownloadResult]()
	if u.maxConc > 0 {
		p = p.WithMaxGoroutines(u.maxConc)
	}

	for i, name := range req.Filenames {
		p.Go(func() domain.DownloadResult {
			r := u.downloadOne(ctx, req.Index, name, req.Dir)
			r.Index = i
			if req.Progress != nil {
				req.Progress(r)
			}
			return r
		})
	}

	results := make([]domain.DownloadResult, len(req.Filenames))
	for _, r := range p.Wait() {
		results[r.Index] = r
	}

	u.record(req.Platform, results)
	return results, nil
}

func (u *DownloadUseCase) downloadOne(ctx context.Context, idx *domain.Index, name, dir string) domain.DownloadResult {
	r := domain.DownloadResult{Filename: name}

	entry, ok := idx.Get(name)
	if !ok {
		r.Err = fmt.Errorf("%w: %s", domain.ErrUnknownFile, name)
		return r
	}
	r.URL = entry.URL

	base := filepath.Base(name)
	if base != name || base == "." || base == ".." {
		r.Err = fmt.Errorf("%w: unsafe filename %q", domain.ErrDownloadFailed, name)
		return r
	}
	r.Path = filepath.Join(dir, base)

	u.logger.Info("downloading", "filename", name)
	n, err := u.fetchTo(ctx, r.URL, r.Path)
	r.Bytes = n
	if err != nil {
		r.Err = fmt.Errorf("%w: %s: %v", domain.ErrDownloadFailed, name, err)
		u.logger.Warn("download failed", "filename", name, "error", err)
		return r
	}

	u.logger.Info("saved", "filename", name, "bytes", n)
	return r
}

// fetchTo streams url into a temporary file next to path and renames it
// into place. The partial file is removed on failure.
func (u *DownloadUseCase) fetchTo(ctx context.Context, url, path string) (int64, error) {
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}

	n, err := u.fetcher.Fetch(ctx, url, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
		return n, err
	}
	return n, nil
}

func (u *DownloadUseCase) record(platform string, results []domain.DownloadResult) {
	if u.history == nil || len(results) == 0 {
		return
	}
	now := time.Now()
	recs := make([]domain.DownloadRecord, len(results))
	for i, r := range results {
		recs[i] = domain.DownloadRecord{
			Platform:   platform,
			Filename:   r.Filename,
			URL:        r.URL,
			Path:       r.Path,
			Bytes:      r.Bytes,
			FinishedAt: now,
		}
		if r.Err != nil {
			recs[i].Path = ""
			recs[i].Error = r.Err.Error()
		}
	}
	if err := u.history.RecordDownloads(recs); err != nil {
		u.logger.Warn("failed to record downloads", "error", err)
	}
}

// ParseSelection resolves a download prompt answer to filenames.
//
// Without search results the answer must be a filename in idx. With
// results it may be "all", a filename in idx, or space-separated 1-based
// result numbers. A single out-of-range number rejects the whole answer.
func ParseSelection(input string, results []string, idx *domain.Index) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: nothing selected", domain.ErrOutOfRange)
	}

	if _, ok := idx.Get(input); ok {
		return []string{input}, nil
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFile, input)
	}

	if strings.EqualFold(input, "all") {
		return append([]string(nil), results...), nil
	}

	fields := strings.Fields(input)
	out := make([]string, 0, len(fields))
	seen := make(map[int]bool, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is neither a result number, \"all\" nor an indexed filename", domain.ErrUnknownFile, input)
		}
		if n < 1 || n > len(results) {
			return nil, fmt.Errorf("%w: %d is not between 1 and %d", domain.ErrOutOfRange, n, len(results))
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, results[n-1])
	}
	return out, nil
}

// ResolveFilenames checks that every name is in idx and drops repeats,
// keeping the first occurrence. One unknown name rejects them all.
func ResolveFilenames(names []string, idx *domain.Index) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := idx.Get(name); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFile, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}
