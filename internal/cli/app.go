package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"romdex/config"
	"romdex/internal/adapter/cache"
	"romdex/internal/adapter/indexfile"
	"romdex/internal/adapter/memstore"
	"romdex/internal/adapter/remote"
	"romdex/internal/adapter/retriever"
	"romdex/internal/adapter/scraper"
	"romdex/internal/adapter/store"
	"romdex/internal/adapter/taxonomy"
	"romdex/internal/domain"
	"romdex/internal/port"
	"romdex/internal/usecase"
)

// loadTaxonomy reads tags.json and short-codes.json from the data dir, or
// returns the built-in taxonomy when neither exists.
func loadTaxonomy() (*taxonomy.Taxonomy, error) {
	dataDir := config.DataDir(GetRootDir())
	tax, err := taxonomy.Load(
		filepath.Join(dataDir, taxonomy.TagsFile),
		filepath.Join(dataDir, taxonomy.ShortCodesFile),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	return tax, nil
}

func sourceURL() (string, error) {
	u, ok := GetConfig().SourceURL(GetPlatform())
	if !ok {
		return "", fmt.Errorf("no source configured for platform %q", GetPlatform())
	}
	return u, nil
}

// newClient returns an HTTP client sending the source page as Referer.
func newClient(referer string) *remote.Client {
	cfg := GetConfig()
	return remote.NewClient(remote.Options{
		Referer:   referer,
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTP.Timeout,
		ChunkSize: cfg.Download.ChunkSize,
	})
}

// openHistory opens the history database. When it cannot be opened, for
// instance because another romdex holds its lock, history is kept in memory
// for this run only.
func openHistory() port.HistoryStore {
	st, err := func() (*store.BoltStore, error) {
		if err := config.EnsureDataDir(GetRootDir()); err != nil {
			return nil, err
		}
		return store.NewBoltStore(config.HistoryDBPath(GetRootDir()))
	}()
	if err != nil {
		logger.Warn("history unavailable, keeping it in memory", "error", err)
		return memstore.NewMemoryStore()
	}
	return st
}

func loadIndex() (*domain.Index, error) {
	idx, err := indexfile.Load(config.IndexPath(GetRootDir(), GetPlatform()))
	if errors.Is(err, domain.ErrNoIndex) {
		return nil, fmt.Errorf("%w for platform %q. Run 'romdex index' first", domain.ErrNoIndex, GetPlatform())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}
	return idx, nil
}

func newSearchUseCase(tax *taxonomy.Taxonomy) *usecase.SearchUseCase {
	cfg := GetConfig()
	searcher := retriever.NewSearcher(cfg.Search.Limit, cfg.Search.MinScore)
	cached := cache.NewCachedSearcher(searcher, cache.NewQueryCache(cfg.Search.CacheSize, cfg.Search.CacheTTL))
	return usecase.NewSearchUseCase(cached, tax)
}

// buildIndex rebuilds the index of the current platform and prints a
// summary to w.
func buildIndex(ctx context.Context, w io.Writer, tax *taxonomy.Taxonomy, history port.HistoryStore) (*domain.Index, error) {
	cfg := GetConfig()
	src, err := sourceURL()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDataDir(GetRootDir()); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	filter := scraper.NewFilter(cfg.Source.Includes, cfg.Source.Excludes)
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	client := newClient(src)
	indexUC := usecase.NewIndexUseCase(
		scraper.NewScraper(client, filter),
		client,
		tax,
		history,
		logger,
		cfg.HTTP.MaxConc,
	)

	indexPath := config.IndexPath(GetRootDir(), GetPlatform())
	fmt.Fprintf(w, "Fetching %s...\n", src)

	bar := newETABar(w, "Indexing")
	result, err := indexUC.Build(ctx, usecase.BuildRequest{
		Platform:  GetPlatform(),
		SourceURL: src,
		IndexPath: indexPath,
		Progress: func(_, total int) {
			bar.Step(total)
		},
	})
	bar.Finish()
	if err != nil {
		return nil, fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(w, "\nIndexing complete:\n")
	fmt.Fprintf(w, "  Candidates: %d\n", result.Candidates)
	fmt.Fprintf(w, "  Indexed:    %d\n", result.Indexed)
	fmt.Fprintf(w, "  Skipped:    %d\n", result.Skipped)
	fmt.Fprintf(w, "\nIndex stored at: %s\n", indexPath)

	return result.Index, nil
}

// downloadFiles fetches names into the download dir and prints one line per
// file. It fails when any file failed.
func downloadFiles(ctx context.Context, w io.Writer, idx *domain.Index, names []string, history port.HistoryStore) error {
	if len(names) == 0 {
		return nil
	}
	cfg := GetConfig()
	src, err := sourceURL()
	if err != nil {
		return err
	}

	dir := cfg.DownloadDir(GetRootDir())
	downloadUC := usecase.NewDownloadUseCase(newClient(src), history, logger, cfg.Download.MaxConc)

	bar := newETABar(w, "Downloading")
	results, err := downloadUC.Download(ctx, usecase.DownloadRequest{
		Platform:  GetPlatform(),
		Index:     idx,
		Filenames: names,
		Dir:       dir,
		Progress: func(domain.DownloadResult) {
			bar.Step(len(names))
		},
	})
	bar.Finish()
	if err != nil {
		return err
	}

	failed := 0
	fmt.Fprintln(w)
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "  FAILED %s: %v\n", r.Filename, r.Err)
			continue
		}
		fmt.Fprintf(w, "  Saved  %s (%d bytes)\n", r.Path, r.Bytes)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(results))
	}
	return nil
}

func printResults(w io.Writer, results []string) {
	fmt.Fprintln(w, "Results:")
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s\n", i+1, r)
	}
}
