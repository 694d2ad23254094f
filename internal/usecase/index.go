package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"romdex/internal/adapter/analyzer"
	"romdex/internal/adapter/indexfile"
	"romdex/internal/adapter/remote"
	"romdex/internal/adapter/scraper"
	"romdex/internal/domain"
	"romdex/internal/port"
)

// IndexUseCase rebuilds a platform index from its listing page.
type IndexUseCase struct {
	lister  port.ListingFetcher
	prober  port.Prober
	tags    analyzer.TagSet
	history port.HistoryStore
	logger  *slog.Logger
	maxConc int
}

// NewIndexUseCase creates a new index use case. history may be nil.
// maxConc caps the probes in flight; zero leaves them unbounded.
func NewIndexUseCase(
	lister port.ListingFetcher,
	prober port.Prober,
	tags analyzer.TagSet,
	history port.HistoryStore,
	logger *slog.Logger,
	maxConc int,
) *IndexUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &IndexUseCase{
		lister:  lister,
		prober:  prober,
		tags:    tags,
		history: history,
		logger:  logger,
		maxConc: maxConc,
	}
}

// BuildRequest names what to index and where to write it.
type BuildRequest struct {
	Platform  string
	SourceURL string
	// IndexPath receives the index file; empty skips saving.
	IndexPath string
	// Progress is called once per finished probe, possibly concurrently.
	Progress func(done, total int)
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	Index      *domain.Index
	Candidates int
	Indexed    int
	Skipped    int
	Errors     []string
}

// Build fetches the listing, probes every candidate and parses the ones
// that answer into a fresh index. A failed candidate is logged and left
// out; only a failed listing or a cancelled context fails the build.
func (u *IndexUseCase) Build(ctx context.Context, req BuildRequest) (*IndexResult, error) {
	hrefs, err := u.lister.FetchListing(ctx, req.SourceURL)
	if err != nil {
		return nil, err
	}
	u.logger.Debug("listing fetched", "url", req.SourceURL, "candidates", len(hrefs))

	probes := u.probeAll(ctx, req.SourceURL, hrefs, req.Progress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &IndexResult{Candidates: len(hrefs)}
	entries := make([]domain.GameEntry, 0, len(probes))
	for _, p := range probes {
		if p.Err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", p.Filename, p.Err))
			continue
		}
		title, tags := analyzer.ParseFilename(p.Filename, u.tags)
		entries = append(entries, domain.GameEntry{
			Filename: p.Filename,
			URL:      p.URL,
			Title:    title,
			Tags:     tags,
		})
	}

	result.Index = domain.NewIndex(entries)
	result.Indexed = result.Index.Len()

	if req.IndexPath != "" {
		if err := indexfile.Save(req.IndexPath, result.Index); err != nil {
			return nil, fmt.Errorf("failed to save index: %w", err)
		}
	}

	if u.history != nil {
		rec := domain.BuildRecord{
			Platform:   req.Platform,
			Source:     req.SourceURL,
			Candidates: result.Candidates,
			Indexed:    result.Indexed,
			Skipped:    result.Skipped,
			BuiltAt:    time.Now(),
		}
		if err := u.history.RecordBuild(rec); err != nil {
			u.logger.Warn("failed to record build", "error", err)
		}
	}

	u.logger.Info("index built",
		"platform", req.Platform,
		"candidates", result.Candidates,
		"indexed", result.Indexed,
		"skipped", result.Skipped,
	)
	return result, nil
}

// probeAll checks every href concurrently and returns the results in
// listing order.
func (u *IndexUseCase) probeAll(ctx context.Context, pageURL string, hrefs []string, progress func(done, total int)) []domain.ProbeResult {
	p := pool.NewWithResults[domain.ProbeResult]()
	if u.maxConc > 0 {
		p = p.WithMaxGoroutines(u.maxConc)
	}

	var done atomic.Int64
	total := len(hrefs)
	for i, href := range hrefs {
		p.Go(func() domain.ProbeResult {
			r := u.probe(ctx, pageURL, href)
			r.Index = i
			if progress != nil {
				progress(int(done.Add(1)), total)
			}
			return r
		})
	}

	results := make([]domain.ProbeResult, total)
	for _, r := range p.Wait() {
		results[r.Index] = r
	}
	return results
}

func (u *IndexUseCase) probe(ctx context.Context, pageURL, href string) domain.ProbeResult {
	r := domain.ProbeResult{Href: href}

	name, err := scraper.FilenameOf(href)
	if err != nil {
		r.Err = fmt.Errorf("%w: %v", domain.ErrCandidateUnavailable, err)
		return r
	}
	r.Filename = name

	r.URL, err = scraper.ResolveURL(pageURL, href)
	if err != nil {
		r.Err = fmt.Errorf("%w: %v", domain.ErrCandidateUnavailable, err)
		return r
	}

	err = u.prober.Probe(ctx, r.URL)
	var se *remote.StatusError
	switch {
	case err == nil:
		r.Status = 200
		u.logger.Info("found", "filename", name)
	case errors.As(err, &se):
		r.Status = se.Code
		r.Err = fmt.Errorf("%w: HTTP %d", domain.ErrCandidateUnavailable, se.Code)
		u.logger.Warn("skipped", "filename", name, "status", se.Code)
	default:
		r.Err = fmt.Errorf("%w: %v", domain.ErrCandidateUnavailable, err)
		u.logger.Warn("request failed", "filename", name, "error", err)
	}
	return r
}
