package retriever

import (
	"sort"

	"romdex/internal/adapter/analyzer"
	"romdex/internal/domain"
)

const (
	DefaultLimit    = 30
	DefaultMinScore = 70
)

// Searcher ranks index filenames against a title term and filters them by
// tags. It holds no state between calls.
type Searcher struct {
	limit    int
	minScore int
}

// NewSearcher creates a Searcher keeping at most limit fuzzy candidates
// and dropping any that score below minScore.
func NewSearcher(limit, minScore int) *Searcher {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Searcher{
		limit:    limit,
		minScore: minScore,
	}
}

// Search returns the matching filenames in ranking order.
func (s *Searcher) Search(idx *domain.Index, q domain.Query) []domain.Match {
	var candidates []domain.Match
	if q.Title == "" {
		keys := idx.Keys()
		candidates = make([]domain.Match, len(keys))
		for i, k := range keys {
			candidates[i] = domain.Match{Filename: k}
		}
	} else {
		candidates = s.rank(idx.Keys(), q.Title)
	}

	results := make([]domain.Match, 0, len(candidates))
	for _, c := range candidates {
		entry, ok := idx.Get(c.Filename)
		if !ok {
			continue
		}
		if MatchesTags(entry, q.Include, q.Exclude) {
			results = append(results, c)
		}
	}
	return results
}

// rank scores every key, keeps the best s.limit in stable order and drops
// those under the score floor.
func (s *Searcher) rank(keys []string, title string) []domain.Match {
	term := analyzer.Normalize(title)

	scored := make([]domain.Match, len(keys))
	for i, k := range keys {
		scored[i] = domain.Match{
			Filename: k,
			Score:    partialRatio(term, analyzer.Normalize(k)),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > s.limit {
		scored = scored[:s.limit]
	}

	filtered := scored[:0]
	for _, m := range scored {
		if m.Score >= s.minScore {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// MatchesTags reports whether an entry carries at least one include tag
// (or include is empty) and none of the exclude tags.
func MatchesTags(entry domain.GameEntry, include, exclude []string) bool {
	if len(include) > 0 {
		found := false
		for _, tag := range include {
			if entry.HasTag(tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, tag := range exclude {
		if entry.HasTag(tag) {
			return false
		}
	}
	return true
}

// Filenames strips scores from matches.
func Filenames(matches []domain.Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Filename
	}
	return out
}
