package usecase

import (
	"romdex/internal/adapter/analyzer"
	"romdex/internal/domain"
	"romdex/internal/port"
)

// SearchUseCase parses query lines and runs them against an index.
type SearchUseCase struct {
	searcher port.Searcher
	tags     analyzer.TagResolver
}

// NewSearchUseCase creates a new search use case.
func NewSearchUseCase(searcher port.Searcher, tags analyzer.TagResolver) *SearchUseCase {
	return &SearchUseCase{
		searcher: searcher,
		tags:     tags,
	}
}

// Search parses line and returns the matching entries in ranking order.
// A malformed query returns an error and no results.
func (u *SearchUseCase) Search(idx *domain.Index, line string) ([]domain.Match, error) {
	q, err := analyzer.ParseQueryLine(line, u.tags)
	if err != nil {
		return nil, err
	}
	return u.searcher.Search(idx, q), nil
}

// SearchResult is a simplified result for CLI output.
type SearchResult struct {
	Rank     int      `json:"rank"`
	Filename string   `json:"filename"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Tags     []string `json:"tags"`
	Score    int      `json:"score"`
}

// Describe joins matches with their index entries, numbered from 1.
func Describe(idx *domain.Index, matches []domain.Match) []SearchResult {
	out := make([]SearchResult, 0, len(matches))
	for i, m := range matches {
		e, _ := idx.Get(m.Filename)
		out = append(out, SearchResult{
			Rank:     i + 1,
			Filename: m.Filename,
			Title:    e.Title,
			URL:      e.URL,
			Tags:     e.Tags,
			Score:    m.Score,
		})
	}
	return out
}
