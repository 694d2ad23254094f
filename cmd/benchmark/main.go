package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"romdex/config"
	"romdex/internal/adapter/cache"
	"romdex/internal/adapter/indexfile"
	"romdex/internal/adapter/retriever"
	"romdex/internal/adapter/taxonomy"
	"romdex/internal/usecase"
)

func main() {
	rootDir := flag.String("dir", ".", "Path to the romdex root directory")
	platform := flag.String("p", "", "Platform (default from config)")
	query := flag.String("q", "", "Query to test")
	runs := flag.Int("n", 50, "Number of timed runs")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir ./roms -q '\"champion golf\" +jp'")
		fmt.Println("\nReports:")
		fmt.Println("  1. Ranked matches with their partial-ratio scores")
		fmt.Println("  2. Score distribution of the returned matches")
		fmt.Println("  3. Search latency uncached and cached")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *platform == "" {
		*platform = cfg.DefaultPlatform
	}

	idx, err := indexfile.Load(config.IndexPath(*rootDir, *platform))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
		os.Exit(1)
	}

	dataDir := config.DataDir(*rootDir)
	tax, err := taxonomy.Load(filepath.Join(dataDir, taxonomy.TagsFile), filepath.Join(dataDir, taxonomy.ShortCodesFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tags: %v\n", err)
		os.Exit(1)
	}

	searcher := retriever.NewSearcher(cfg.Search.Limit, cfg.Search.MinScore)
	plain := usecase.NewSearchUseCase(searcher, tax)
	cached := usecase.NewSearchUseCase(cache.NewCachedSearcher(searcher, cache.NewQueryCache(cfg.Search.CacheSize, cfg.Search.CacheTTL)), tax)

	fmt.Println("SEARCH BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Platform: %s\n", *platform)
	fmt.Printf("Entries indexed: %d\n", idx.Len())
	fmt.Printf("Limit: %d, min score: %d\n\n", cfg.Search.Limit, cfg.Search.MinScore)

	fmt.Printf("Query: %s\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	matches, err := plain.Search(idx, *query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}
	if len(matches) == 0 {
		fmt.Println("No results found")
		os.Exit(0)
	}

	fmt.Printf("Top %d matches:\n\n", len(matches))
	total := 0
	for i, m := range matches {
		total += m.Score
		e, _ := idx.Get(m.Filename)

		rating := "-"
		switch {
		case m.Score >= 95:
			rating = "EXACT"
		case m.Score >= 85:
			rating = "HIGH"
		case m.Score >= 70:
			rating = "OK"
		}

		fmt.Printf("%d. [%s %d] %s\n", i+1, rating, m.Score, m.Filename)
		fmt.Printf("   %s %v\n\n", e.Title, e.Tags)
	}

	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average score: %.1f\n", float64(total)/float64(len(matches)))
	fmt.Printf("  Top-1 score:   %d\n", matches[0].Score)

	fmt.Printf("\nLATENCY (%d runs):\n", *runs)
	fmt.Printf("  Uncached: %s\n", timeRuns(*runs, func() { plain.Search(idx, *query) }))
	fmt.Printf("  Cached:   %s\n", timeRuns(*runs, func() { cached.Search(idx, *query) }))
}

func timeRuns(n int, fn func()) time.Duration {
	if n <= 0 {
		n = 1
	}
	start := time.Now()
	for i := 0; i < n; i++ {
		fn()
	}
	return time.Since(start) / time.Duration(n)
}
